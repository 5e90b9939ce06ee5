package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/api"
	"github.com/teknohive/fessctl/internal/board"
	"github.com/teknohive/fessctl/internal/config"
	"github.com/teknohive/fessctl/internal/ui"
	"github.com/teknohive/fessctl/internal/view"
)

// feedURL picks the push channel for a board.
func (a *app) feedURL(kind board.Kind) string {
	if kind == board.KindSongfess {
		return a.cfg.SongfessFeedURL()
	}
	return a.cfg.MessagesFeedURL()
}

// snapshot fetches a board's list, propagating failure for an inline error.
func (a *app) snapshot(ctx context.Context, kind board.Kind) ([]board.Item, error) {
	if kind == board.KindSongfess {
		return a.client.Songfess(ctx, api.FailPropagate)
	}
	return a.client.Messages(ctx, api.FailPropagate)
}

// runList prints a one-shot snapshot of a board.
func runList(cmd *cobra.Command, kind board.Kind) {
	a := mustApp()
	ctx := cmd.Context()

	if err := a.ensureAuth(ctx); err != nil {
		exitAuthErr(err)
	}

	items, err := a.snapshot(ctx, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
		os.Exit(1)
	}
	fmt.Print(view.RenderList(kind, items))
}

// runWatch runs the live view until interrupted.
func runWatch(cmd *cobra.Command, kind board.Kind) {
	a := mustApp()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	v, err := view.New(&view.Config{
		Kind:    kind,
		Client:  a.client,
		Guard:   a.guard,
		FeedURL: a.feedURL(kind),
		Out:     os.Stdout,
		Logger:  a.logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Long-running command, so pick up config file edits as they happen.
	config.Watch(vpr, a.logger, func(cfg *config.Config) {
		a.cfg = cfg
	})

	fmt.Printf("%s Watching %s live. Press Ctrl+C to stop.\n\n", ui.RenderAccent("▶"), kind)
	if err := v.Run(ctx); err != nil {
		exitAuthErr(err)
	}
}

// runDelete confirms and performs a remote delete.
func runDelete(cmd *cobra.Command, kind board.Kind, id string) {
	a := mustApp()
	ctx := cmd.Context()

	if err := a.ensureAdmin(ctx); err != nil {
		exitAuthErr(err)
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s?", kind, id)).
				Description("This removes the entry for everyone.").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return
		}
	}

	if err := a.client.DeleteItem(ctx, kind, id); err != nil {
		var rejected *api.RemoteRejectedError
		if errors.As(err, &rejected) {
			fmt.Fprintf(os.Stderr, "%s Delete refused (status %d). Nothing was removed.\n", ui.RenderFail("✗"), rejected.Status)
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
		}
		os.Exit(1)
	}
	fmt.Printf("%s Deleted %s %s\n", ui.RenderPass("✓"), kind, id)
}
