package analytics

import (
	"testing"
	"time"
)

func TestClassifyComplexity(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		rows     int
		expected string
	}{
		{
			name:     "fast and small",
			elapsed:  50 * time.Millisecond,
			rows:     500,
			expected: complexitySimple,
		},
		{
			name:     "fast but too many rows for simple",
			elapsed:  50 * time.Millisecond,
			rows:     5000,
			expected: complexityModerate,
		},
		{
			name:     "moderate duration small rows",
			elapsed:  300 * time.Millisecond,
			rows:     50,
			expected: complexityModerate,
		},
		{
			name:     "slow query with few rows",
			elapsed:  600 * time.Millisecond,
			rows:     50,
			expected: complexityComplex,
		},
		{
			name:     "huge row count",
			elapsed:  50 * time.Millisecond,
			rows:     50000,
			expected: complexityComplex,
		},
		{
			name:     "boundary simple to moderate",
			elapsed:  100 * time.Millisecond,
			rows:     0,
			expected: complexityModerate,
		},
		{
			name:     "boundary moderate to complex",
			elapsed:  500 * time.Millisecond,
			rows:     0,
			expected: complexityComplex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyComplexity(tt.elapsed, tt.rows)
			if got != tt.expected {
				t.Fatalf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestQueryMetadataRounding(t *testing.T) {
	meta := queryMetadata(1234567*time.Microsecond, 10)

	if meta.ExecutionTimeMS != 1234.57 {
		t.Fatalf("expected 1234.57 ms, got %v", meta.ExecutionTimeMS)
	}

	if meta.CacheHit {
		t.Fatal("cache hit should never be reported")
	}

	if meta.RowsProcessed != 10 {
		t.Fatalf("expected 10 rows, got %d", meta.RowsProcessed)
	}
}
