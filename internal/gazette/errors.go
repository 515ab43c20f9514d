package gazette

import "errors"

// Sentinel errors shared across the ingestion pipeline.
var (
	// ErrSummaryMissing marks a single-date probe that found no summary,
	// whether via a non-success status or a transport failure.
	ErrSummaryMissing = errors.New("summary not available for date")

	// ErrNoSummaryFound is returned after the whole lookback window is
	// exhausted. Callers treat it as "nothing to ingest this run".
	ErrNoSummaryFound = errors.New("no summary found within lookback window")

	// ErrParse marks a document that failed under every supported parse
	// mode. The run fails with zero insertions.
	ErrParse = errors.New("summary document could not be parsed")

	// ErrDuplicate marks a store conflict on the dedup key. It is an
	// expected, silent skip and never surfaces out of the store layer.
	ErrDuplicate = errors.New("announcement already ingested")
)
