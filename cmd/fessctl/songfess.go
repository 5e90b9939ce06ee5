package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/board"
	"github.com/teknohive/fessctl/internal/ui"
	"github.com/teknohive/fessctl/internal/view"
)

var songfessCmd = &cobra.Command{
	Use:     "songfess",
	GroupID: "boards",
	Short:   "Browse the songfess board",
}

var songfessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List song confessions",
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd, board.KindSongfess)
	},
}

var songfessWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the songfess board live",
	Run: func(cmd *cobra.Command, args []string) {
		runWatch(cmd, board.KindSongfess)
	},
}

var songfessShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one song confession",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAuth(ctx); err != nil {
			exitAuthErr(err)
		}

		item, err := a.client.SongfessByID(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}

		fmt.Print(view.RenderItem(board.KindSongfess, *item))
		fmt.Printf("  %s\n", ui.RenderDim("Posted: "+view.FormatExactTime(item.CreatedAt)))
	},
}

var songfessDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a song confession (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDelete(cmd, board.KindSongfess, args[0])
	},
}

func init() {
	songfessDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	songfessCmd.AddCommand(songfessListCmd)
	songfessCmd.AddCommand(songfessWatchCmd)
	songfessCmd.AddCommand(songfessShowCmd)
	songfessCmd.AddCommand(songfessDeleteCmd)
	rootCmd.AddCommand(songfessCmd)
}
