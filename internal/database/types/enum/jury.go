package enum

// ScoreTier identifies one of the independent score tracks in the
// jury/moderation scoring context. Tiers are never mixed with the bounded
// marketplace score.
type ScoreTier int

const (
	ScoreTierOverall ScoreTier = iota
	ScoreTierModeration
	ScoreTierReporting
	ScoreTierJury
)

// String returns the lowercase label for the score tier.
func (t ScoreTier) String() string {
	switch t {
	case ScoreTierOverall:
		return "overall"
	case ScoreTierModeration:
		return "moderation"
	case ScoreTierReporting:
		return "reporting"
	case ScoreTierJury:
		return "jury"
	default:
		return "unknown"
	}
}
