// Package sumario retrieves and dissects the BOE daily summary document.
package sumario

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// DefaultBaseURL is the open-data endpoint serving one summary per date.
const DefaultBaseURL = "https://www.boe.es/datosabiertos/api/boe/sumario"

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements gazette.SummaryFetcher using the Colly collector.
type Fetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, baseCollector: c, logger: logger}
}

// SummaryURL returns the per-date resource address.
func (f *Fetcher) SummaryURL(date time.Time) string {
	return fmt.Sprintf("%s/%s", f.cfg.BaseURL, date.Format(gazette.DateLayout))
}

// FetchSummary executes a single bounded-timeout GET for the given date.
// A non-success status returns an error wrapping gazette.ErrSummaryMissing;
// transport failures surface as-is. Both classes mean "try the previous day"
// to the locator.
func (f *Fetcher) FetchSummary(ctx context.Context, date time.Time) ([]byte, error) {
	var (
		body       []byte
		statusCode int
		fetchErr   error
	)

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/xml, text/xml, */*; q=0.01")
	})
	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	url := f.SummaryURL(date)
	if err := f.visit(ctx, collector, url); err != nil {
		return nil, err
	}

	switch {
	case fetchErr != nil && statusCode > 0:
		// Colly reports non-2xx responses through OnError.
		return nil, fmt.Errorf("fetch %s: status %d: %w", url, statusCode, gazette.ErrSummaryMissing)
	case fetchErr != nil:
		return nil, fmt.Errorf("fetch %s: %w", url, fetchErr)
	case len(body) == 0:
		return nil, fmt.Errorf("fetch %s: empty body: %w", url, gazette.ErrSummaryMissing)
	}
	return body, nil
}

// visit runs the collector, honoring context cancellation around the
// synchronous Visit call.
func (f *Fetcher) visit(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch %s: %w", url, ctx.Err())
	case err := <-done:
		// Visit returns the OnError error too; the callback already
		// captured it with status context, so only surface any other
		// failure mode here.
		if err != nil {
			f.logger.Debug("collector visit returned", zap.String("url", url), zap.Error(err))
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
