package types

import "testing"

func TestBuildMetrics(t *testing.T) {
	orders := OrderCounts{Total: 10, Completed: 8}
	reviews := ReviewCounts{Positive: 5, Negative: 1, Neutral: 2}
	disputes := DisputeCounts{Total: 2, Resolved: 1}

	m := BuildMetrics(orders, reviews, disputes)

	if m.TotalTransactions != 10 {
		t.Errorf("Expected 10 transactions, got %d", m.TotalTransactions)
	}

	if m.PositiveReviews != 5 || m.NegativeReviews != 1 || m.NeutralReviews != 2 {
		t.Errorf("Unexpected review counts: %+v", m)
	}

	if m.DisputedCount != 2 || m.ResolvedCount != 1 {
		t.Errorf("Unexpected dispute counts: %+v", m)
	}

	if m.CompletionRate != 0.8 {
		t.Errorf("Expected completion rate 0.8, got %f", m.CompletionRate)
	}
}

func TestBuildMetrics_NoOrders(t *testing.T) {
	m := BuildMetrics(OrderCounts{}, ReviewCounts{}, DisputeCounts{})

	if m.CompletionRate != 0 {
		t.Errorf("Expected completion rate 0 with no orders, got %f", m.CompletionRate)
	}
}

func TestBuildMetrics_Idempotent(t *testing.T) {
	orders := OrderCounts{Total: 4, Completed: 4}
	reviews := ReviewCounts{Positive: 3}
	disputes := DisputeCounts{Total: 1}

	first := BuildMetrics(orders, reviews, disputes)
	second := BuildMetrics(orders, reviews, disputes)

	if first != second {
		t.Errorf("Expected identical metrics, got %+v and %+v", first, second)
	}
}

func TestSentimentFromRating(t *testing.T) {
	tests := []struct {
		rating   int32
		expected string
	}{
		{5, "positive"},
		{4, "positive"},
		{3, "neutral"},
		{2, "negative"},
		{1, "negative"},
	}

	for _, tt := range tests {
		if got := SentimentFromRating(tt.rating).String(); got != tt.expected {
			t.Errorf("Rating %d: expected %s, got %s", tt.rating, tt.expected, got)
		}
	}
}

func TestJuryScore_RecordCase(t *testing.T) {
	score := &JuryScore{}

	score.RecordCase(4)
	score.RecordCase(2)

	if score.CaseCount != 2 {
		t.Errorf("Expected 2 cases, got %d", score.CaseCount)
	}

	if score.Score != 3 {
		t.Errorf("Expected running average 3, got %f", score.Score)
	}
}
