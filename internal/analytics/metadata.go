package analytics

import (
	"math"
	"time"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

// Complexity classes attached to query metadata.
const (
	complexitySimple   = "simple"
	complexityModerate = "moderate"
	complexityComplex  = "complex"
)

// Classification thresholds. Both the time and the row bound must hold for a
// class; an operation exceeding either moderate bound is complex.
const (
	simpleMaxDuration   = 100 * time.Millisecond
	simpleMaxRows       = 1000
	moderateMaxDuration = 500 * time.Millisecond
	moderateMaxRows     = 10000
)

// queryMetadata annotates one finished operation with its execution time and
// a coarse complexity class.
func queryMetadata(elapsed time.Duration, rowsProcessed int) domain.QueryMetadata {
	return domain.QueryMetadata{
		ExecutionTimeMS: round2(float64(elapsed.Microseconds()) / 1000),
		RowsProcessed:   rowsProcessed,
		CacheHit:        false,
		QueryComplexity: classifyComplexity(elapsed, rowsProcessed),
	}
}

func classifyComplexity(elapsed time.Duration, rowsProcessed int) string {
	switch {
	case elapsed < simpleMaxDuration && rowsProcessed < simpleMaxRows:
		return complexitySimple
	case elapsed < moderateMaxDuration && rowsProcessed < moderateMaxRows:
		return complexityModerate
	default:
		return complexityComplex
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
