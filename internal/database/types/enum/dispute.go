package enum

// DisputeStatus represents the state of a dispute raised against an order.
type DisputeStatus int

const (
	DisputeStatusOpen DisputeStatus = iota
	DisputeStatusResolved
	DisputeStatusWithdrawn
)

// String returns the lowercase label for the dispute status.
func (s DisputeStatus) String() string {
	switch s {
	case DisputeStatusOpen:
		return "open"
	case DisputeStatusResolved:
		return "resolved"
	case DisputeStatusWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}
