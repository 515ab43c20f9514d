// Package notify formats and dispatches digests of newly ingested
// announcements.
package notify

import (
	"fmt"
	"strings"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// Subject builds the digest subject line, including the record count.
func Subject(count int) string {
	if count == 1 {
		return "BOE oposiciones: 1 new announcement"
	}
	return fmt.Sprintf("BOE oposiciones: %d new announcements", count)
}

// Body renders the human-readable digest: one block per record with its
// title, publication date, and links.
func Body(anns []gazette.Announcement) string {
	var b strings.Builder
	b.WriteString("New competitive examination announcements:\n\n")
	for _, ann := range anns {
		title := ann.Title
		if title == "" {
			title = ann.BOEID
		}
		fmt.Fprintf(&b, "- %s\n", title)
		fmt.Fprintf(&b, "  published: %s\n", gazette.FormatDate(ann.PublicationDate))
		if ann.IssuingBody != "" {
			fmt.Fprintf(&b, "  issuer: %s\n", ann.IssuingBody)
		}
		if ann.DetailURL != "" {
			fmt.Fprintf(&b, "  detail: %s\n", ann.DetailURL)
		}
		if ann.DocumentURL != "" {
			fmt.Fprintf(&b, "  document: %s\n", ann.DocumentURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
