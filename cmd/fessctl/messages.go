package main

import (
	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/board"
)

var messagesCmd = &cobra.Command{
	Use:     "messages",
	GroupID: "boards",
	Short:   "Browse the message board",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages",
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd, board.KindMessage)
	},
}

var messagesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the message board live",
	Long: `Tail the message board live.

Loads the current list, then follows the push channel. New messages are
prepended as they arrive. The connection is re-established automatically with
backoff if it drops.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWatch(cmd, board.KindMessage)
	},
}

var messagesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a message (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDelete(cmd, board.KindMessage, args[0])
	},
}

func init() {
	messagesDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesWatchCmd)
	messagesCmd.AddCommand(messagesDeleteCmd)
	rootCmd.AddCommand(messagesCmd)
}
