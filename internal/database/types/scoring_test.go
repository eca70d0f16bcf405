package types

import (
	"math/rand"
	"testing"
)

func TestComputeOutcome_WeightedImpact(t *testing.T) {
	rule := &ReputationRule{
		EventType:    EventTypePositiveReview,
		ScoreImpact:  2.5,
		WeightFactor: 1.0,
	}

	outcome := ComputeOutcome(50, rule, DefaultScoreBounds())

	if outcome.Delta != 2.5 {
		t.Errorf("Expected delta 2.5, got %f", outcome.Delta)
	}

	if outcome.PreviousScore != 50 {
		t.Errorf("Expected previous score 50, got %f", outcome.PreviousScore)
	}

	if outcome.NewScore != 52.5 {
		t.Errorf("Expected new score 52.5, got %f", outcome.NewScore)
	}
}

func TestComputeOutcome_ClampsToUpperBound(t *testing.T) {
	rule := &ReputationRule{
		EventType:    EventTypeOrderCompleted,
		ScoreImpact:  10,
		WeightFactor: 1.0,
	}

	outcome := ComputeOutcome(99, rule, DefaultScoreBounds())

	// The history entry keeps the unclamped delta; only the stored score is
	// clamped.
	if outcome.Delta != 10 {
		t.Errorf("Expected unclamped delta 10, got %f", outcome.Delta)
	}

	if outcome.NewScore != 100 {
		t.Errorf("Expected clamped score 100, got %f", outcome.NewScore)
	}
}

func TestComputeOutcome_ClampsToLowerBound(t *testing.T) {
	rule := &ReputationRule{
		EventType:    EventTypeDisputeResolvedAgainst,
		ScoreImpact:  -15,
		WeightFactor: 1.0,
	}

	outcome := ComputeOutcome(5, rule, DefaultScoreBounds())

	if outcome.Delta != -15 {
		t.Errorf("Expected unclamped delta -15, got %f", outcome.Delta)
	}

	if outcome.NewScore != 0 {
		t.Errorf("Expected clamped score 0, got %f", outcome.NewScore)
	}
}

func TestComputeOutcome_MaxImpactPreservesSign(t *testing.T) {
	tests := []struct {
		name     string
		impact   float64
		weight   float64
		cap      float64
		expected float64
	}{
		{"positive capped", 8, 2, 5, 5},
		{"negative capped", -8, 2, 5, -5},
		{"under cap untouched", 3, 1, 5, 3},
		{"zero cap means uncapped", 8, 2, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &ReputationRule{
				ScoreImpact:  tt.impact,
				WeightFactor: tt.weight,
				MaxImpact:    tt.cap,
			}

			outcome := ComputeOutcome(50, rule, DefaultScoreBounds())
			if outcome.Delta != tt.expected {
				t.Errorf("Expected delta %f, got %f", tt.expected, outcome.Delta)
			}
		})
	}
}

func TestComputeOutcome_ZeroWeightDefaultsToOne(t *testing.T) {
	rule := &ReputationRule{ScoreImpact: 2}

	outcome := ComputeOutcome(50, rule, DefaultScoreBounds())
	if outcome.Delta != 2 {
		t.Errorf("Expected delta 2 with default weight, got %f", outcome.Delta)
	}
}

func TestComputeOutcome_HistoryArithmetic(t *testing.T) {
	bounds := DefaultScoreBounds()
	rule := &ReputationRule{ScoreImpact: 7.5, WeightFactor: 1.0}

	outcome := ComputeOutcome(40, rule, bounds)

	// previous + delta must equal the new score prior to clamping, and the
	// stored score must equal the clamped value.
	unclamped := outcome.PreviousScore + outcome.Delta
	if bounds.Clamp(unclamped) != outcome.NewScore {
		t.Errorf("Clamped %f does not match stored score %f", unclamped, outcome.NewScore)
	}
}

func TestComputeOutcome_BoundsInvariant(t *testing.T) {
	bounds := DefaultScoreBounds()
	rng := rand.New(rand.NewSource(42))

	score := bounds.Baseline
	for range 1000 {
		rule := &ReputationRule{
			ScoreImpact:  rng.Float64()*40 - 20,
			WeightFactor: rng.Float64() * 3,
			MaxImpact:    rng.Float64() * 10,
		}

		outcome := ComputeOutcome(score, rule, bounds)
		if outcome.NewScore < bounds.Lower || outcome.NewScore > bounds.Upper {
			t.Fatalf("Score %f escaped bounds [%f, %f]", outcome.NewScore, bounds.Lower, bounds.Upper)
		}

		score = outcome.NewScore
	}
}

func TestClampedDelta(t *testing.T) {
	entry := &ReputationHistoryEntry{
		Delta:         10,
		PreviousScore: 99,
		NewScore:      100,
	}

	if entry.ClampedDelta() != 1 {
		t.Errorf("Expected clamped delta 1, got %f", entry.ClampedDelta())
	}
}
