package database

import (
	"testing"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/setup/config"
	"github.com/stretchr/testify/assert"
)

func TestBoundsFromConfig(t *testing.T) {
	t.Parallel()

	baselineZero := 0.0
	baselineCustom := 70.0

	tests := []struct {
		name     string
		config   config.Reputation
		expected types.ScoreBounds
	}{
		{
			name:     "unset config falls back to defaults",
			config:   config.Reputation{},
			expected: types.ScoreBounds{Lower: 0, Upper: 100, Baseline: 50},
		},
		{
			name:     "explicit zero baseline is honored",
			config:   config.Reputation{Baseline: &baselineZero},
			expected: types.ScoreBounds{Lower: 0, Upper: 100, Baseline: 0},
		},
		{
			name:     "custom baseline is honored",
			config:   config.Reputation{Baseline: &baselineCustom},
			expected: types.ScoreBounds{Lower: 0, Upper: 100, Baseline: 70},
		},
		{
			name:     "explicit bounds pass through",
			config:   config.Reputation{LowerBound: 10, UpperBound: 90},
			expected: types.ScoreBounds{Lower: 10, Upper: 90, Baseline: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, boundsFromConfig(&tt.config))
		})
	}
}
