package types

// OrderCounts holds order aggregates for one actor (as buyer or seller).
type OrderCounts struct {
	Total     int64
	Completed int64
}

// ReviewCounts holds review-sentiment aggregates for one actor as reviewee.
type ReviewCounts struct {
	Positive int64
	Negative int64
	Neutral  int64
}

// DisputeCounts holds dispute aggregates for one actor as either party.
type DisputeCounts struct {
	Total    int64
	Resolved int64
}

// ReputationMetrics is the denormalized counter set recomputed from the
// transactional tables. Building it is a pure function of the aggregates, so
// refreshing twice with no intervening writes yields identical values.
type ReputationMetrics struct {
	TotalTransactions int64
	PositiveReviews   int64
	NegativeReviews   int64
	NeutralReviews    int64
	DisputedCount     int64
	ResolvedCount     int64
	CompletionRate    float64
}

// BuildMetrics combines per-table aggregates into the counter set stored on
// the reputation record. Completion rate is completed over total orders, 0
// when the actor has no orders.
func BuildMetrics(orders OrderCounts, reviews ReviewCounts, disputes DisputeCounts) ReputationMetrics {
	m := ReputationMetrics{
		TotalTransactions: orders.Total,
		PositiveReviews:   reviews.Positive,
		NegativeReviews:   reviews.Negative,
		NeutralReviews:    reviews.Neutral,
		DisputedCount:     disputes.Total,
		ResolvedCount:     disputes.Resolved,
	}

	if orders.Total > 0 {
		m.CompletionRate = float64(orders.Completed) / float64(orders.Total)
	}

	return m
}
