package sumario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// DefaultLookbackDays bounds the backward date search. Summaries are not
// published on weekends and holidays, so a week covers every gap observed in
// practice.
const DefaultLookbackDays = 7

// Locator finds the most recent published summary at or before a start date.
type Locator struct {
	fetcher gazette.SummaryFetcher
	logger  *zap.Logger
}

// NewLocator builds a Locator over the given fetcher.
func NewLocator(fetcher gazette.SummaryFetcher, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{fetcher: fetcher, logger: logger}
}

// LocateAndFetch probes startDate and then one day back at a time, up to
// maxLookbackDays probes. It returns the effective date (YYYYMMDD), the raw
// document, and the attempts made. When every probe misses it returns
// gazette.ErrNoSummaryFound, which callers treat as "nothing to ingest",
// not as a hard failure.
func (l *Locator) LocateAndFetch(
	ctx context.Context,
	startDate time.Time,
	maxLookbackDays int,
) (string, []byte, []gazette.FetchAttempt, error) {
	if maxLookbackDays <= 0 {
		maxLookbackDays = DefaultLookbackDays
	}

	attempts := make([]gazette.FetchAttempt, 0, maxLookbackDays)
	date := startDate
	for i := 0; i < maxLookbackDays; i++ {
		if err := ctx.Err(); err != nil {
			return "", nil, attempts, fmt.Errorf("locate summary: %w", err)
		}

		body, err := l.fetcher.FetchSummary(ctx, date)
		if err == nil {
			attempts = append(attempts, gazette.FetchAttempt{Date: date, Outcome: gazette.FetchSuccess})
			gazette.ProbesTotal.WithLabelValues(string(gazette.FetchSuccess)).Inc()
			l.logger.Info("summary located",
				zap.String("date", date.Format(gazette.DateLayout)),
				zap.Int("probes", i+1),
			)
			return date.Format(gazette.DateLayout), body, attempts, nil
		}

		outcome := gazette.FetchTransportError
		if errors.Is(err, gazette.ErrSummaryMissing) {
			outcome = gazette.FetchNotFound
		}
		attempts = append(attempts, gazette.FetchAttempt{Date: date, Outcome: outcome})
		gazette.ProbesTotal.WithLabelValues(string(outcome)).Inc()
		l.logger.Info("summary unavailable, trying previous day",
			zap.String("date", date.Format(gazette.DateLayout)),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)

		date = date.AddDate(0, 0, -1)
	}

	return "", nil, attempts, gazette.ErrNoSummaryFound
}
