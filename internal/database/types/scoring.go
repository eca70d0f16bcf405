package types

import "math"

// Default score bounds and the baseline assigned to newly created records.
const (
	DefaultLowerBound = 0.0
	DefaultUpperBound = 100.0
	DefaultBaseline   = 50.0
)

// ScoreBounds defines the closed range a reputation score is clamped to and
// the starting score for lazily created records.
type ScoreBounds struct {
	Lower    float64
	Upper    float64
	Baseline float64
}

// DefaultScoreBounds returns the standard marketplace bounds.
func DefaultScoreBounds() ScoreBounds {
	return ScoreBounds{
		Lower:    DefaultLowerBound,
		Upper:    DefaultUpperBound,
		Baseline: DefaultBaseline,
	}
}

// Clamp restricts v to the [Lower, Upper] range.
func (b ScoreBounds) Clamp(v float64) float64 {
	return math.Min(math.Max(v, b.Lower), b.Upper)
}

// ScoreOutcome is the result of applying one rule to a current score.
// Delta is capped to the rule's maximum magnitude but not clamped to the
// score bounds; NewScore is the clamped value to persist.
type ScoreOutcome struct {
	Delta         float64
	PreviousScore float64
	NewScore      float64
}

// ComputeOutcome applies a rule to the current score. The raw delta is the
// rule's impact times its weight; its magnitude is capped while preserving
// sign, then the resulting score is clamped to the bounds.
func ComputeOutcome(current float64, rule *ReputationRule, bounds ScoreBounds) ScoreOutcome {
	delta := rule.ScoreImpact * rule.Weight()

	if rule.MaxImpact > 0 && math.Abs(delta) > rule.MaxImpact {
		delta = math.Copysign(rule.MaxImpact, delta)
	}

	return ScoreOutcome{
		Delta:         delta,
		PreviousScore: current,
		NewScore:      bounds.Clamp(current + delta),
	}
}
