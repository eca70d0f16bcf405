package enum

// EventStatus tracks an outbox event through its delivery lifecycle.
type EventStatus int

const (
	EventStatusPending EventStatus = iota
	EventStatusApplied
	EventStatusFailed
)

// String returns the lowercase label for the event status.
func (s EventStatus) String() string {
	switch s {
	case EventStatusPending:
		return "pending"
	case EventStatusApplied:
		return "applied"
	case EventStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
