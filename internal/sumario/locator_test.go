package sumario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// fakeFetcher serves canned responses keyed by YYYYMMDD date.
type fakeFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) FetchSummary(_ context.Context, date time.Time) ([]byte, error) {
	key := date.Format(gazette.DateLayout)
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if body, ok := f.bodies[key]; ok {
		return body, nil
	}
	return nil, gazette.ErrSummaryMissing
}

func TestLocateAndFetchFirstDayHit(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{bodies: map[string][]byte{"20260109": []byte("<sumario/>")}}
	loc := NewLocator(fetcher, nil)

	date, body, attempts, err := loc.LocateAndFetch(context.Background(), start, 7)
	require.NoError(t, err)
	assert.Equal(t, "20260109", date)
	assert.Equal(t, []byte("<sumario/>"), body)
	require.Len(t, attempts, 1)
	assert.Equal(t, gazette.FetchSuccess, attempts[0].Outcome)
}

func TestLocateAndFetchWalksBackwards(t *testing.T) {
	t.Parallel()

	// Friday the 9th is a holiday gap; the summary exists two days earlier.
	start := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{bodies: map[string][]byte{"20260107": []byte("<sumario/>")}}
	loc := NewLocator(fetcher, nil)

	date, body, attempts, err := loc.LocateAndFetch(context.Background(), start, 7)
	require.NoError(t, err)
	assert.Equal(t, "20260107", date)
	assert.NotEmpty(t, body)
	assert.Equal(t, []string{"20260109", "20260108", "20260107"}, fetcher.calls)
	require.Len(t, attempts, 3)
	assert.Equal(t, gazette.FetchNotFound, attempts[0].Outcome)
	assert.Equal(t, gazette.FetchNotFound, attempts[1].Outcome)
	assert.Equal(t, gazette.FetchSuccess, attempts[2].Outcome)
}

func TestLocateAndFetchExhaustsWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{}
	loc := NewLocator(fetcher, nil)

	_, _, attempts, err := loc.LocateAndFetch(context.Background(), start, 7)
	require.ErrorIs(t, err, gazette.ErrNoSummaryFound)
	assert.Len(t, attempts, 7)
	assert.Equal(t, []string{
		"20260109", "20260108", "20260107", "20260106",
		"20260105", "20260104", "20260103",
	}, fetcher.calls)
}

func TestLocateAndFetchKeepsProbingOnTransportError(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{
		errs:   map[string]error{"20260109": errors.New("connection reset")},
		bodies: map[string][]byte{"20260108": []byte("<sumario/>")},
	}
	loc := NewLocator(fetcher, nil)

	date, _, attempts, err := loc.LocateAndFetch(context.Background(), start, 7)
	require.NoError(t, err)
	assert.Equal(t, "20260108", date)
	require.Len(t, attempts, 2)
	assert.Equal(t, gazette.FetchTransportError, attempts[0].Outcome)
	assert.Equal(t, gazette.FetchSuccess, attempts[1].Outcome)
}

func TestLocateAndFetchHonorsContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loc := NewLocator(&fakeFetcher{}, nil)
	_, _, _, err := loc.LocateAndFetch(ctx, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), 7)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocateAndFetchDefaultsLookback(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	loc := NewLocator(fetcher, nil)
	_, _, _, err := loc.LocateAndFetch(context.Background(), time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), 0)
	require.ErrorIs(t, err, gazette.ErrNoSummaryFound)
	assert.Len(t, fetcher.calls, DefaultLookbackDays)
}
