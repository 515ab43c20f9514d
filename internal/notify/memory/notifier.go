// Package memory contains an in-memory notifier implementation for tests.
package memory

import (
	"context"
	"sync"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// Dispatch captures one Notify call.
type Dispatch struct {
	Recipients    []string
	Announcements []gazette.Announcement
}

// Notifier records dispatches for inspection and can be primed to fail.
type Notifier struct {
	mu         sync.RWMutex
	dispatches []Dispatch

	// Err, when set, is returned by every Notify call.
	Err error
}

// New returns a memory Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Notify records the dispatch, honoring the empty-input no-op contract.
func (n *Notifier) Notify(_ context.Context, recipients []string, newlyInserted []gazette.Announcement) error {
	if len(recipients) == 0 || len(newlyInserted) == 0 {
		return nil
	}
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dispatches = append(n.dispatches, Dispatch{
		Recipients:    append([]string(nil), recipients...),
		Announcements: append([]gazette.Announcement(nil), newlyInserted...),
	})
	return nil
}

// Dispatches returns the recorded calls.
func (n *Notifier) Dispatches() []Dispatch {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Dispatch, len(n.dispatches))
	copy(out, n.dispatches)
	return out
}
