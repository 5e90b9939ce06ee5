// Package list merges a fetched snapshot with pushed items into the single
// ordered sequence a view displays.
//
// The reconciler is a pure projection of (snapshot, pushes, removals); it
// holds no other state and performs no I/O. Ordering is insertion order:
// pushed items are prepended in arrival order and the list is never re-sorted
// by timestamp.
package list

import (
	"sync"

	"github.com/teknohive/fessctl/internal/board"
)

// Reconciler holds the visible sequence for one view.
//
// ApplyPushedItem performs no de-duplication against existing ids: pushing an
// id that is already present yields two visible entries. That matches the
// upstream behavior this client talks to, which is assumed (not guaranteed)
// to deliver each item at most once. See DESIGN.md for the open question.
type Reconciler struct {
	mu    sync.Mutex
	items []board.Item
}

// New returns an empty reconciler.
func New() *Reconciler {
	return &Reconciler{}
}

// ApplySnapshot replaces the current list wholesale.
func (r *Reconciler) ApplySnapshot(items []board.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]board.Item, len(items))
	copy(r.items, items)
}

// ApplyPushedItem prepends item to the front of the list. Pushed items are
// treated as more recent than everything already present.
func (r *Reconciler) ApplyPushedItem(item board.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]board.Item{item}, r.items...)
}

// RemoveItem drops every item whose normalized id equals id, preserving the
// relative order of the rest. Callers invoke this only after a remote delete
// has been confirmed; there is no optimistic removal.
func (r *Reconciler) RemoveItem(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, it := range r.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	r.items = kept
}

// Items returns a copy of the visible sequence.
func (r *Reconciler) Items() []board.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]board.Item, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of visible items.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
