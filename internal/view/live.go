// Package view composes the live board views: an authenticated snapshot
// fetch, a supervised push subscription, and the reconciler that merges the
// two into the sequence the terminal shows.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/teknohive/fessctl/internal/api"
	"github.com/teknohive/fessctl/internal/board"
	"github.com/teknohive/fessctl/internal/feed"
	"github.com/teknohive/fessctl/internal/list"
	"github.com/teknohive/fessctl/internal/session"
)

// Config describes one live view.
type Config struct {
	// Kind selects the board (messages or songfess).
	Kind board.Kind

	// Client performs the snapshot fetch and deletions.
	Client *api.Client

	// Guard supplies session state; the view subscribes to it and leaves
	// when the session ends.
	Guard *session.Guard

	// FeedURL is the push channel for this board.
	FeedURL string

	// Out receives rendered output (default: stdout).
	Out io.Writer

	// Logger for view diagnostics (default: stderr logger).
	Logger *log.Logger
}

// View is one mounted live list.
type View struct {
	kind    board.Kind
	client  *api.Client
	guard   *session.Guard
	feedURL string
	out     io.Writer
	logger  *log.Logger

	rec *list.Reconciler

	sup       *feed.Supervisor
	sessionCh <-chan session.State
	unsub     func()
}

// New creates an unmounted view.
func New(config *Config) (*View, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	if config.Guard == nil {
		return nil, fmt.Errorf("guard cannot be nil")
	}
	if config.FeedURL == "" {
		return nil, fmt.Errorf("feed URL cannot be empty")
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[view] ", log.LstdFlags)
	}
	return &View{
		kind:    config.Kind,
		client:  config.Client,
		guard:   config.Guard,
		feedURL: config.FeedURL,
		out:     out,
		logger:  logger,
		rec:     list.New(),
	}, nil
}

// Mount re-checks the session, applies the snapshot, and only then opens the
// push channel. Opening after the snapshot completes is what keeps the union
// correct: no push can arrive before the snapshot is applied, so none is
// dropped by it.
func (v *View) Mount(ctx context.Context) error {
	if _, err := v.guard.CheckStatus(ctx); err != nil {
		return fmt.Errorf("session check failed: %w", err)
	}
	if err := v.guard.RequireAuth(); err != nil {
		return err
	}

	items, err := v.snapshot(ctx)
	if err != nil {
		var unavailable *api.RemoteUnavailableError
		if !errors.As(err, &unavailable) {
			return err
		}
		// Degraded view: inline error, empty list, live updates still on.
		fmt.Fprintf(v.out, "Failed to load the current list (%v); showing live updates only.\n", err)
		items = nil
	}
	v.rec.ApplySnapshot(items)

	v.sup = feed.Supervise(ctx, v.feedURL, v.logger)
	v.sessionCh, v.unsub = v.guard.Subscribe()
	return nil
}

// Unmount tears down the push subscription and the session subscription.
// After Unmount no further events are applied.
func (v *View) Unmount() {
	if v.sup != nil {
		v.sup.Close()
		v.sup = nil
	}
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

// Items returns the currently visible sequence.
func (v *View) Items() []board.Item {
	return v.rec.Items()
}

// Delete confirms a remote delete and only then removes the entry locally.
func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.guard.RequireAdmin(); err != nil {
		return err
	}
	if err := v.client.DeleteItem(ctx, v.kind, id); err != nil {
		return err
	}
	v.rec.RemoveItem(id)
	return nil
}

// Run mounts the view and renders until ctx is cancelled or the session
// ends. A session ending mid-view returns ErrAuthRequired, the cue for the
// caller to fall back to the public surface.
func (v *View) Run(ctx context.Context) error {
	if err := v.Mount(ctx); err != nil {
		return err
	}
	defer v.Unmount()

	v.render()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-v.sup.Events():
			if !ok {
				return nil
			}
			if v.apply(ev) {
				v.render()
			}

		case st, ok := <-v.sessionCh:
			if !ok {
				return nil
			}
			if !st.Authenticated {
				fmt.Fprintln(v.out, "Session ended; leaving live view.")
				return api.ErrAuthRequired
			}
		}
	}
}

// apply folds one push event into the list, reporting whether anything
// changed. Undecodable frames are logged and skipped, never fatal.
func (v *View) apply(ev feed.Event) bool {
	if ev.Err != nil || ev.Item == nil {
		v.logger.Printf("ignoring undecodable push frame (%d bytes): %v", len(ev.Raw), ev.Err)
		return false
	}
	v.rec.ApplyPushedItem(*ev.Item)
	return true
}

// snapshot fetches the initial list for this view's board.
func (v *View) snapshot(ctx context.Context) ([]board.Item, error) {
	switch v.kind {
	case board.KindSongfess:
		return v.client.Songfess(ctx, api.FailPropagate)
	default:
		return v.client.Messages(ctx, api.FailPropagate)
	}
}

func (v *View) render() {
	fmt.Fprint(v.out, RenderList(v.kind, v.rec.Items()))
	fmt.Fprintln(v.out)
}
