package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "auth",
	Short:   "Show the current session",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		st, err := a.guard.CheckStatus(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if !st.Authenticated {
			fmt.Printf("%s Not signed in. Run 'fessctl login'.\n", ui.RenderWarn("⚠"))
			return
		}

		fmt.Printf("%s Signed in\n", ui.RenderPass("✓"))
		if st.User.Name != "" {
			fmt.Printf("   Name:  %s\n", st.User.Name)
		}
		if st.User.Email != "" {
			fmt.Printf("   Email: %s\n", st.User.Email)
		}
		fmt.Printf("   ID:    %s\n", st.User.ID)
		if st.IsAdmin() {
			fmt.Printf("   Role:  %s\n", ui.RenderAccent("admin"))
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
