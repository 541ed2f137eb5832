package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/?days_back=90", nil)

	v, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	require.NoError(t, err)
	assert.Equal(t, 90, v)

	r = httptest.NewRequest("GET", "/", nil)

	v, err = intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	require.NoError(t, err)
	assert.Equal(t, defaultDaysBack, v)

	r = httptest.NewRequest("GET", "/?days_back=400", nil)

	_, err = intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/?days_back=soon", nil)

	_, err = intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	assert.Error(t, err)
}

func TestFloatParamBounds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?min_relevance=0.5", nil)

	v, err := floatParam(r, "min_relevance", 0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	r = httptest.NewRequest("GET", "/?min_relevance=1.5", nil)

	_, err = floatParam(r, "min_relevance", 0, 0, 1)
	assert.Error(t, err)
}

func TestDateParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/?date_from=2026-07-01", nil)

	v, err := dateParam(r, "date_from")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 2026, v.Year())
	assert.Equal(t, 7, int(v.Month()))

	r = httptest.NewRequest("GET", "/", nil)

	v, err = dateParam(r, "date_from")
	require.NoError(t, err)
	assert.Nil(t, v)

	r = httptest.NewRequest("GET", "/?date_from=yesterdayish", nil)

	_, err = dateParam(r, "date_from")
	assert.Error(t, err)
}

func TestSentimentParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/?sentiment=positive", nil)

	v, err := sentimentParam(r)
	require.NoError(t, err)
	assert.Equal(t, "positive", v)

	r = httptest.NewRequest("GET", "/?sentiment=ecstatic", nil)

	_, err = sentimentParam(r)
	assert.Error(t, err)
}

func TestQueryParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	_, err := queryParam(r)
	assert.Error(t, err)
}

func TestPageParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=0", nil)

	_, err := pageParam(r)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/?page=7", nil)

	v, err := pageParam(r)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
