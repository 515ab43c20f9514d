// Package memory contains an in-memory announcement store for tests and
// local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// Store implements gazette.Store with the same dedup semantics as the
// Postgres store: unique detail URLs, composite (identifier, date) key for
// rows without one.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	rows   []gazette.Announcement

	byDetailURL map[string]struct{}
	byComposite map[string]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nextID:      1,
		byDetailURL: make(map[string]struct{}),
		byComposite: make(map[string]struct{}),
	}
}

// InsertAnnouncement mirrors the Postgres conflict-skip behavior.
func (s *Store) InsertAnnouncement(
	_ context.Context,
	ann gazette.Announcement,
) (gazette.Announcement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ann.DetailURL != "" {
		if _, ok := s.byDetailURL[ann.DetailURL]; ok {
			return ann, false, nil
		}
	} else {
		key := ann.BOEID + "\x00" + ann.PublicationDate
		if _, ok := s.byComposite[key]; ok {
			return ann, false, nil
		}
		s.byComposite[key] = struct{}{}
	}
	if ann.DetailURL != "" {
		s.byDetailURL[ann.DetailURL] = struct{}{}
	}

	ann.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, ann)
	return ann, true, nil
}

// ListIssuingBodies returns the distinct non-empty issuing bodies sorted
// alphabetically.
func (s *Store) ListIssuingBodies(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var bodies []string
	for _, ann := range s.rows {
		if ann.IssuingBody == "" {
			continue
		}
		if _, ok := seen[ann.IssuingBody]; ok {
			continue
		}
		seen[ann.IssuingBody] = struct{}{}
		bodies = append(bodies, ann.IssuingBody)
	}
	sort.Strings(bodies)
	return bodies, nil
}

// ListAnnouncements applies the filter and returns one page, newest first.
func (s *Store) ListAnnouncements(
	_ context.Context,
	f gazette.AnnouncementFilter,
) ([]gazette.Announcement, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []gazette.Announcement
	for _, ann := range s.rows {
		if !matches(ann, f) {
			continue
		}
		matched = append(matched, ann)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].PublicationDate != matched[j].PublicationDate {
			return matched[i].PublicationDate > matched[j].PublicationDate
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= total {
		return nil, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return append([]gazette.Announcement(nil), matched[start:end]...), total, nil
}

// Close is a no-op.
func (s *Store) Close() {}

// Len reports the total number of stored rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func matches(ann gazette.Announcement, f gazette.AnnouncementFilter) bool {
	if f.IssuingBody != "" && ann.IssuingBody != f.IssuingBody {
		return false
	}
	if f.Region != "" && ann.Region != f.Region {
		return false
	}
	if f.FromDate != "" && ann.PublicationDate < f.FromDate {
		return false
	}
	if f.ToDate != "" && ann.PublicationDate > f.ToDate {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(ann.BOEID), q) &&
			!strings.Contains(strings.ToLower(ann.Title), q) &&
			!strings.Contains(strings.ToLower(ann.ControlCode), q) {
			return false
		}
	}
	return true
}
