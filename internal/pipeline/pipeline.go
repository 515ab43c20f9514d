// Package pipeline orchestrates one ingestion run: locate, fetch, extract,
// normalize, ingest, notify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/gazette"
	"github.com/fransm/boe-watcher/internal/sumario"
)

// SummaryLocator finds the most recent summary at or before a start date.
type SummaryLocator interface {
	LocateAndFetch(ctx context.Context, startDate time.Time, maxLookbackDays int) (string, []byte, []gazette.FetchAttempt, error)
}

// Hasher computes digests used to name archived payloads.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Config controls pipeline behavior.
type Config struct {
	SectionCode   string
	LookbackDays  int
	Recipients    []string
	ArchivePrefix string
}

// Pipeline executes ingestion runs. Each run is strictly sequential and
// stateless between invocations; the store's uniqueness constraints are the
// only cross-run coordination.
type Pipeline struct {
	locator    SummaryLocator
	normalizer *sumario.Normalizer
	store      gazette.Store
	notifier   gazette.Notifier
	archive    gazette.BlobStore
	hasher     Hasher
	clock      gazette.Clock
	ids        gazette.IDGenerator
	cfg        Config
	logger     *zap.Logger
}

// New constructs a Pipeline. The notifier, archive, and hasher are optional;
// nil disables the corresponding step.
func New(
	locator SummaryLocator,
	normalizer *sumario.Normalizer,
	store gazette.Store,
	notifier gazette.Notifier,
	archive gazette.BlobStore,
	hasher Hasher,
	clock gazette.Clock,
	ids gazette.IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if cfg.SectionCode == "" {
		cfg.SectionCode = sumario.DefaultSectionCode
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = sumario.DefaultLookbackDays
	}
	if cfg.ArchivePrefix == "" {
		cfg.ArchivePrefix = "sumarios"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		locator:    locator,
		normalizer: normalizer,
		store:      store,
		notifier:   notifier,
		archive:    archive,
		hasher:     hasher,
		clock:      clock,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one ingestion run. targetDate zero means "today". The outcome
// is always populated; the returned error is non-nil only for the failed
// status, so callers can branch on it for exit codes while the outcome
// carries the details either way.
func (p *Pipeline) Run(ctx context.Context, targetDate time.Time) (gazette.RunOutcome, error) {
	outcome := gazette.RunOutcome{Status: gazette.RunFailed}
	if p.ids != nil {
		if id, err := p.ids.NewID(); err == nil {
			outcome.RunID = id
		}
	}
	logger := p.logger.With(zap.String("run_id", outcome.RunID))

	if targetDate.IsZero() {
		targetDate = p.clock.Now()
	}

	effectiveDate, body, attempts, err := p.locator.LocateAndFetch(ctx, targetDate, p.cfg.LookbackDays)
	if err != nil {
		if errors.Is(err, gazette.ErrNoSummaryFound) {
			// Expected absence: weekends and holidays publish nothing.
			logger.Info("no summary within lookback window",
				zap.String("start_date", targetDate.Format(gazette.DateLayout)),
				zap.Int("probes", len(attempts)),
			)
			outcome.Status = gazette.RunEmpty
			gazette.RunsTotal.WithLabelValues(string(outcome.Status)).Inc()
			return outcome, nil
		}
		gazette.RunsTotal.WithLabelValues(string(outcome.Status)).Inc()
		return outcome, fmt.Errorf("locate summary: %w", err)
	}
	outcome.Result.SourceDate = effectiveDate

	p.archivePayload(ctx, logger, effectiveDate, body)

	entries, err := sumario.ExtractSection(body, p.cfg.SectionCode)
	if err != nil {
		// Parse failure under every mode: the run fails with zero inserts.
		gazette.RunsTotal.WithLabelValues(string(outcome.Status)).Inc()
		return outcome, fmt.Errorf("extract section %s: %w", p.cfg.SectionCode, err)
	}
	if len(entries) == 0 {
		logger.Info("summary has no matching section entries",
			zap.String("section", p.cfg.SectionCode),
			zap.String("date", effectiveDate),
		)
	}

	anns := make([]gazette.Announcement, 0, len(entries))
	for _, entry := range entries {
		ann := p.normalizer.Normalize(entry)
		ann.PublicationDate = effectiveDate
		anns = append(anns, ann)
	}

	result, err := p.ingest(ctx, anns, effectiveDate)
	outcome.Result = result
	if err != nil {
		// Prior inserts in this run stay committed.
		gazette.RunsTotal.WithLabelValues(string(outcome.Status)).Inc()
		return outcome, err
	}

	outcome.Status = gazette.RunSucceeded
	outcome.Warning = p.dispatchDigest(ctx, logger, result.NewlyInserted)
	gazette.RunsTotal.WithLabelValues(string(outcome.Status)).Inc()

	logger.Info("ingestion run finished",
		zap.String("date", effectiveDate),
		zap.Int("seen", result.TotalSeen),
		zap.Int("new", len(result.NewlyInserted)),
	)
	return outcome, nil
}

// ingest attempts a per-record atomic insert for every announcement.
// Duplicate-key conflicts are expected silent skips; any other store error
// aborts the run while keeping what was already committed.
func (p *Pipeline) ingest(
	ctx context.Context,
	anns []gazette.Announcement,
	effectiveDate string,
) (gazette.IngestionResult, error) {
	result := gazette.IngestionResult{SourceDate: effectiveDate}
	for _, ann := range anns {
		inserted, isNew, err := p.store.InsertAnnouncement(ctx, ann)
		if err != nil {
			return result, fmt.Errorf("ingest announcement %q: %w", ann.BOEID, err)
		}
		result.TotalSeen++
		if isNew {
			result.NewlyInserted = append(result.NewlyInserted, inserted)
			gazette.AnnouncementsInserted.Inc()
		} else {
			gazette.AnnouncementsDuplicate.Inc()
		}
	}
	return result, nil
}

// dispatchDigest sends the digest and converts any failure into a warning
// string. Notification must never roll back or fail an ingestion run.
func (p *Pipeline) dispatchDigest(ctx context.Context, logger *zap.Logger, newlyInserted []gazette.Announcement) string {
	if p.notifier == nil || len(p.cfg.Recipients) == 0 || len(newlyInserted) == 0 {
		return ""
	}
	if err := p.notifier.Notify(ctx, p.cfg.Recipients, newlyInserted); err != nil {
		gazette.NotifyFailures.Inc()
		logger.Warn("digest dispatch failed", zap.Error(err))
		return fmt.Sprintf("notification failed: %v", err)
	}
	return ""
}

// archivePayload stores the raw document under its content hash. Archive
// failures are logged and otherwise ignored.
func (p *Pipeline) archivePayload(ctx context.Context, logger *zap.Logger, effectiveDate string, body []byte) {
	if p.archive == nil || p.hasher == nil {
		return
	}
	digest, err := p.hasher.Hash(body)
	if err != nil {
		logger.Warn("hash payload for archive", zap.Error(err))
		return
	}
	path := fmt.Sprintf("%s/%s/%s.xml", p.cfg.ArchivePrefix, effectiveDate, digest)
	uri, err := p.archive.PutObject(ctx, path, "application/xml", body)
	if err != nil {
		logger.Warn("archive summary payload", zap.String("path", path), zap.Error(err))
		return
	}
	if uri != "" {
		logger.Debug("summary payload archived", zap.String("uri", uri))
	}
}
