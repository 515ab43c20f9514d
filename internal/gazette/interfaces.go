package gazette

import (
	"context"
	"time"
)

// SummaryFetcher retrieves the raw summary document published for one date.
// A nil error with a non-empty body means the summary exists; ErrSummaryMissing
// classifies both non-success statuses and transport failures so the locator
// can advance to the previous day.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, date time.Time) ([]byte, error)
}

// Store persists announcements and answers the read queries consumed by
// external presentation layers.
type Store interface {
	// InsertAnnouncement attempts an insert and reports whether the row was
	// genuinely new. A dedup conflict returns (announcement, false, nil).
	InsertAnnouncement(ctx context.Context, ann Announcement) (Announcement, bool, error)

	// ListIssuingBodies returns the distinct non-null issuing bodies.
	ListIssuingBodies(ctx context.Context) ([]string, error)

	// ListAnnouncements returns a filtered, paginated page plus the total
	// row count under the same filter.
	ListAnnouncements(ctx context.Context, f AnnouncementFilter) ([]Announcement, int, error)

	Close()
}

// AnnouncementFilter narrows ListAnnouncements. Zero values mean "no filter".
type AnnouncementFilter struct {
	IssuingBody string
	// Query matches free text over identifier, title, and control code.
	Query  string
	Region string
	// FromDate/ToDate bound PublicationDate inclusively (YYYYMMDD).
	FromDate string
	ToDate   string
	Page     int
	PerPage  int
}

// Notifier dispatches a digest of newly ingested announcements to a
// distribution list. Implementations must treat empty input as a no-op.
type Notifier interface {
	Notify(ctx context.Context, recipients []string, newlyInserted []Announcement) error
}

// BlobStore archives raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
