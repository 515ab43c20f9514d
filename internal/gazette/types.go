// Package gazette defines core types shared across subsystems.
package gazette

import "time"

// DateLayout is the wire format the BOE uses for summary dates.
const DateLayout = "20060102"

// Announcement is one competitive-examination entry extracted from a daily
// summary. Optional fields hold the empty string when the source omits them;
// the store maps those to NULL columns.
type Announcement struct {
	// ID is the store-assigned identity, zero until the row is inserted.
	ID int64 `json:"id"`

	// BOEID is the source-assigned identifier (e.g. "BOE-A-2025-12345").
	// It is not guaranteed to be globally unique on its own.
	BOEID       string `json:"identifier"`
	ControlCode string `json:"control_code,omitempty"`
	Title       string `json:"title,omitempty"`

	// DetailURL links the rendered detail page and is the dedup key.
	DetailURL string `json:"detail_url,omitempty"`
	// DocumentURL links the primary artifact (the PDF).
	DocumentURL string `json:"document_url,omitempty"`

	// IssuingBody is resolved structurally from the entry's enclosing
	// departamento node, never from free text.
	IssuingBody string `json:"issuing_body,omitempty"`

	// PublicationDate is the date the summary was fetched under (YYYYMMDD),
	// not any date embedded in the record itself.
	PublicationDate string `json:"publication_date"`

	// Region is a best-effort heuristic match over the title/control text.
	Region string `json:"region,omitempty"`
}

// RawEntry is one <item> node of the summary before normalization. Values are
// untrimmed text content keyed by child element name, plus the resolved
// ancestor department name.
type RawEntry struct {
	Identifier  string
	Control     string
	Title       string
	DetailURL   string
	DocumentURL string
	Department  string
}

// FetchOutcome classifies one date probed during the backward search.
type FetchOutcome string

// Outcomes recorded per probed date.
const (
	FetchSuccess        FetchOutcome = "success"
	FetchNotFound       FetchOutcome = "not_found"
	FetchTransportError FetchOutcome = "transport_error"
)

// FetchAttempt records one probe of the backward date search. Attempts are
// ephemeral; they exist for logging and tests only.
type FetchAttempt struct {
	Date    time.Time
	Outcome FetchOutcome
}

// IngestionResult is the output of one pipeline run.
type IngestionResult struct {
	// NewlyInserted holds the announcements genuinely new this run, in the
	// order the source document listed them.
	NewlyInserted []Announcement `json:"newly_inserted"`
	// TotalSeen counts every announcement extracted, new or duplicate.
	TotalSeen int `json:"total_seen"`
	// SourceDate is the effective date the summary was found under
	// (YYYYMMDD), empty when the lookback window was exhausted.
	SourceDate string `json:"source_date,omitempty"`
}

// RunStatus summarizes how a pipeline run ended.
type RunStatus string

// Run statuses reported to callers.
const (
	// RunSucceeded means the summary was found and ingestion completed,
	// possibly with zero new records.
	RunSucceeded RunStatus = "succeeded"
	// RunEmpty means no summary was published within the lookback window.
	// This is an expected absence, not a failure.
	RunEmpty RunStatus = "empty"
	// RunFailed means parsing or storage failed; the store holds whatever
	// was committed before the failure.
	RunFailed RunStatus = "failed"
)

// RunOutcome is the structured result of one pipeline invocation.
type RunOutcome struct {
	RunID  string          `json:"run_id"`
	Status RunStatus       `json:"status"`
	Result IngestionResult `json:"result"`
	// Warning carries a soft notification-dispatch failure on an otherwise
	// successful run.
	Warning string `json:"warning,omitempty"`
}
