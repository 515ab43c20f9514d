package sumario

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fransm/boe-watcher/internal/gazette"
)

func TestFetchSummarySuccess(t *testing.T) {
	t.Parallel()

	const payload = `<?xml version="1.0"?><response/>`

	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{BaseURL: srv.URL, UserAgent: "boe-watcher-test"}, nil)
	date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)

	body, err := f.FetchSummary(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
	assert.Equal(t, "/20260109", gotPath)
	assert.Contains(t, gotAccept, "application/xml")
}

func TestFetchSummaryNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{BaseURL: srv.URL}, nil)
	_, err := f.FetchSummary(context.Background(), time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, gazette.ErrSummaryMissing)
}

func TestFetchSummaryEmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{BaseURL: srv.URL}, nil)
	_, err := f.FetchSummary(context.Background(), time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, gazette.ErrSummaryMissing)
}

func TestFetchSummaryTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	f := NewFetcher(FetcherConfig{BaseURL: srv.URL}, nil)
	_, err := f.FetchSummary(context.Background(), time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.NotErrorIs(t, err, gazette.ErrSummaryMissing)
}

func TestFetchSummaryRepeatedDates(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("<response/>"))
	}))
	defer srv.Close()

	// The collector clone must allow revisiting the same URL across runs.
	f := NewFetcher(FetcherConfig{BaseURL: srv.URL}, nil)
	date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := f.FetchSummary(context.Background(), date)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, hits)
}

func TestSummaryURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher(FetcherConfig{}, nil)
	got := f.SummaryURL(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, DefaultBaseURL+"/20260109", got)
}
