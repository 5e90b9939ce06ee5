package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/ui"
)

var blacklistCmd = &cobra.Command{
	Use:     "blacklist",
	GroupID: "moderation",
	Short:   "Manage the word blacklist",
	Long: `Manage the word blacklist.

Blacklisted words are filtered by the server when new entries are submitted;
this surface only edits the list.`,
}

var blacklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blacklisted words",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}

		words, err := a.client.Blacklist(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}

		if len(words) == 0 {
			fmt.Println("No blacklisted words.")
			return
		}
		fmt.Printf("%s\n\n", ui.RenderTitle(fmt.Sprintf("%d blacklisted words", len(words))))
		for _, word := range words {
			fmt.Printf("  %s\n", word)
		}
	},
}

var blacklistAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word to the blacklist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}
		if err := a.client.AddBlacklistWord(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("%s Blacklisted %q\n", ui.RenderPass("✓"), args[0])
	},
}

var blacklistRemoveCmd = &cobra.Command{
	Use:   "remove <word>",
	Short: "Remove a word from the blacklist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}
		if err := a.client.RemoveBlacklistWord(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("%s Removed %q from the blacklist\n", ui.RenderPass("✓"), args[0])
	},
}

func init() {
	blacklistCmd.AddCommand(blacklistListCmd)
	blacklistCmd.AddCommand(blacklistAddCmd)
	blacklistCmd.AddCommand(blacklistRemoveCmd)
	rootCmd.AddCommand(blacklistCmd)
}
