package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Query parameter bounds and defaults shared by the analytical endpoints.
const (
	defaultDaysBack = 30
	minDaysBack     = 1
	maxDaysBack     = 365

	defaultProductLimit = 10
	minProductLimit     = 1
	maxProductLimit     = 50

	defaultPageSize = 20
	minPageSize     = 1
	maxPageSize     = 100

	maxQueryLength = 200
)

// Accepted sentiment filter values.
var sentimentLabels = map[string]struct{}{
	"positive": {},
	"negative": {},
	"neutral":  {},
}

// paramError is a request validation failure, reported as HTTP 400.
type paramError struct {
	name   string
	reason string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.name, e.reason)
}

// intParam parses an optional integer query parameter with inclusive bounds.
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be an integer"}
	}

	if v < lo || v > hi {
		return 0, &paramError{name: name, reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}

	return v, nil
}

// pageParam parses a one-based page number with no upper bound.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &paramError{name: "page", reason: "must be a positive integer"}
	}

	return v, nil
}

// floatParam parses an optional float query parameter with inclusive bounds.
func floatParam(r *http.Request, name string, def, lo, hi float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be a number"}
	}

	if v < lo || v > hi {
		return 0, &paramError{name: name, reason: fmt.Sprintf("must be between %g and %g", lo, hi)}
	}

	return v, nil
}

// boolParam parses an optional boolean query parameter, nil when absent.
func boolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &paramError{name: name, reason: "must be a boolean"}
	}

	return &v, nil
}

// dateParam parses an optional date query parameter in any common layout,
// nil when absent.
func dateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, &paramError{name: name, reason: "must be a date"}
	}

	return &v, nil
}

// sentimentParam validates the optional sentiment filter against the closed
// label set. Empty when absent.
func sentimentParam(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("sentiment")
	if raw == "" {
		return "", nil
	}

	if _, ok := sentimentLabels[raw]; !ok {
		return "", &paramError{name: "sentiment", reason: "must be one of positive, negative, neutral"}
	}

	return raw, nil
}

// queryParam validates the mandatory search query string.
func queryParam(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("query")
	if raw == "" {
		return "", &paramError{name: "query", reason: "is required"}
	}

	if len(raw) > maxQueryLength {
		return "", &paramError{name: "query", reason: fmt.Sprintf("must be at most %d characters", maxQueryLength)}
	}

	return raw, nil
}

func formatWindow(daysBack int) string {
	return fmt.Sprintf("Last %d days", daysBack)
}
