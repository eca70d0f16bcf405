// Package events carries the domain events that replace the database
// triggers of the original schema. Writes that used to fire a trigger now
// dispatch an explicit event, so the recalculation control flow is visible
// and independently testable.
package events

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Event names. Review insertion and order completion are the two invocation
// points of the recalculation pipeline; dispute events feed the
// supplementary dispute rules.
const (
	NameReviewRecorded  = "review_recorded"
	NameOrderCompleted  = "order_completed"
	NameDisputeOpened   = "dispute_opened"
	NameDisputeResolved = "dispute_resolved"
)

// ReviewRecorded fires when a review row is inserted.
type ReviewRecorded struct {
	ReviewID    string `json:"reviewId"`
	OrderID     string `json:"orderId"`
	RevieweeKey string `json:"revieweeKey"`
	Rating      int32  `json:"rating"`
}

// OrderCompleted fires when an order transitions into the completed state.
type OrderCompleted struct {
	OrderID   string `json:"orderId"`
	BuyerKey  string `json:"buyerKey"`
	SellerKey string `json:"sellerKey"`
}

// DisputeOpened fires when a dispute is raised against an order.
type DisputeOpened struct {
	DisputeID     string `json:"disputeId"`
	OrderID       string `json:"orderId"`
	ClaimantKey   string `json:"claimantKey"`
	RespondentKey string `json:"respondentKey"`
}

// DisputeResolved fires when a dispute is closed with a losing party.
type DisputeResolved struct {
	DisputeID  string `json:"disputeId"`
	OrderID    string `json:"orderId"`
	AgainstKey string `json:"againstKey"`
	WinnerKey  string `json:"winnerKey"`
}

// Decode unmarshals an event payload into its typed form.
func Decode[T any](payload []byte) (*T, error) {
	event := new(T)
	if err := sonic.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	return event, nil
}
