package analytics

import (
	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

// Relative change beyond which a series counts as moving. Means within the
// band are reported as stable.
const trendChangeThreshold = 0.05

// minTrendPoints is the series length below which no direction is assigned.
const minTrendPoints = 2

// classifyTrend compares the mean of the first half of a series against the
// mean of the second half. An odd-length series gives the extra point to the
// second half. The growth rate is the relative change in percent.
func classifyTrend(points []domain.TrendPoint) (direction string, growthRate float64) {
	if len(points) < minTrendPoints {
		return domain.TrendInsufficientData, 0
	}

	half := len(points) / 2

	firstMean := meanValue(points[:half])
	secondMean := meanValue(points[half:])

	if firstMean != 0 {
		growthRate = round2((secondMean - firstMean) / firstMean * 100)
	}

	switch {
	case secondMean > firstMean*(1+trendChangeThreshold):
		return domain.TrendIncreasing, growthRate
	case secondMean < firstMean*(1-trendChangeThreshold):
		return domain.TrendDecreasing, growthRate
	default:
		return domain.TrendStable, 0
	}
}

func meanValue(points []domain.TrendPoint) float64 {
	var sum float64

	for _, p := range points {
		sum += p.Value
	}

	return sum / float64(len(points))
}
