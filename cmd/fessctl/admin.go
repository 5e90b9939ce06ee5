package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/ui"
)

var adminCmd = &cobra.Command{
	Use:     "admin",
	GroupID: "moderation",
	Short:   "Manage the admin list",
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}

		admins, err := a.client.Admins(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}

		fmt.Printf("%s\n\n", ui.RenderTitle(fmt.Sprintf("%d admins", len(admins))))
		for _, admin := range admins {
			line := admin.Email
			if admin.Name != "" {
				line = fmt.Sprintf("%s <%s>", admin.Name, admin.Email)
			}
			fmt.Printf("  %s %s\n", line, ui.RenderDim("(id: "+admin.ID+")"))
		}
	},
}

var adminAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Grant admin rights to an email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}
		if err := a.client.AddAdmin(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("%s Added admin %s\n", ui.RenderPass("✓"), args[0])
	},
}

var adminRemoveCmd = &cobra.Command{
	Use:   "remove <id|email>",
	Short: "Revoke admin rights",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		ctx := cmd.Context()

		if err := a.ensureAdmin(ctx); err != nil {
			exitAuthErr(err)
		}
		if err := a.client.RemoveAdmin(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("%s Removed admin %s\n", ui.RenderPass("✓"), args[0])
	},
}

func init() {
	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminRemoveCmd)
	rootCmd.AddCommand(adminCmd)
}
