package sumario

import (
	"strings"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// Normalizer turns raw section entries into typed announcements.
type Normalizer struct {
	regions *gazette.RegionMatcher
}

// NewNormalizer builds a Normalizer over the given region matcher. A nil
// matcher uses the built-in reference list.
func NewNormalizer(regions *gazette.RegionMatcher) *Normalizer {
	if regions == nil {
		regions = gazette.NewRegionMatcher(nil)
	}
	return &Normalizer{regions: regions}
}

// Normalize extracts the typed fields of one entry. Every field is the
// trimmed text of the correspondingly named child, empty when absent. The
// publication date is assigned later by the ingestion step, under the
// effective fetch date.
func (n *Normalizer) Normalize(entry gazette.RawEntry) gazette.Announcement {
	ann := gazette.Announcement{
		BOEID:       strings.TrimSpace(entry.Identifier),
		ControlCode: strings.TrimSpace(entry.Control),
		Title:       strings.TrimSpace(entry.Title),
		DetailURL:   strings.TrimSpace(entry.DetailURL),
		DocumentURL: strings.TrimSpace(entry.DocumentURL),
		IssuingBody: strings.TrimSpace(entry.Department),
	}
	ann.Region = n.regions.Match(ann.Title, ann.ControlCode)
	return ann
}
