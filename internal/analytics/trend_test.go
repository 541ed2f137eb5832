package analytics

import (
	"testing"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

func points(values ...float64) []domain.TrendPoint {
	out := make([]domain.TrendPoint, len(values))

	for i, v := range values {
		out[i].Value = v
	}

	return out
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		direction string
		growth    float64
	}{
		{
			name:      "doubling series increases",
			values:    []float64{10, 10, 10, 20, 20, 20},
			direction: domain.TrendIncreasing,
			growth:    100.0,
		},
		{
			name:      "halving series decreases",
			values:    []float64{20, 20, 10, 10},
			direction: domain.TrendDecreasing,
			growth:    -50.0,
		},
		{
			name:      "flat series is stable",
			values:    []float64{10, 10, 10, 10},
			direction: domain.TrendStable,
		},
		{
			name:      "small change inside band is stable",
			values:    []float64{100, 100, 104, 104},
			direction: domain.TrendStable,
		},
		{
			name:      "single point is insufficient",
			values:    []float64{42},
			direction: domain.TrendInsufficientData,
		},
		{
			name:      "empty series is insufficient",
			values:    nil,
			direction: domain.TrendInsufficientData,
		},
		{
			name:      "odd length gives extra point to second half",
			values:    []float64{10, 10, 20, 20, 20},
			direction: domain.TrendIncreasing,
			growth:    100.0,
		},
		{
			name:      "zero first half does not divide",
			values:    []float64{0, 0, 10, 10},
			direction: domain.TrendIncreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, growth := classifyTrend(points(tt.values...))

			if direction != tt.direction {
				t.Fatalf("expected direction %s, got %s", tt.direction, direction)
			}

			if growth != tt.growth {
				t.Fatalf("expected growth %v, got %v", tt.growth, growth)
			}
		})
	}
}
