package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/ui"
)

var retentionCmd = &cobra.Command{
	Use:     "retention",
	GroupID: "moderation",
	Short:   "Configure how long songfess entries stay visible",
}

var retentionGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the retention window",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}

		days, err := a.client.RetentionDays(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("Songfess entries stay visible for %s days.\n", ui.RenderAccent(strconv.Itoa(days)))
	},
}

var retentionSetCmd = &cobra.Command{
	Use:   "set <days>",
	Short: "Set the retention window",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		days, err := strconv.Atoi(args[0])
		if err != nil || days < 1 {
			fmt.Fprintf(os.Stderr, "Error: days must be a positive integer, got %q\n", args[0])
			os.Exit(1)
		}

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}
		if err := a.client.SetRetentionDays(ctx, days); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("%s Retention window set to %d days\n", ui.RenderPass("✓"), days)
	},
}

func init() {
	retentionCmd.AddCommand(retentionGetCmd)
	retentionCmd.AddCommand(retentionSetCmd)
	rootCmd.AddCommand(retentionCmd)
}
