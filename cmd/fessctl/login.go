package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/teknohive/fessctl/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	GroupID: "auth",
	Short:   "Store a session cookie for credentialed requests",
	Long: `Sign in to the board.

Authentication is issued by the board's Google OAuth flow in a browser; this
command prints the login URL, then stores the session cookie your browser
received so every fessctl invocation is credentialed.

Example:
  fessctl login                        # prompt for the cookie
  fessctl login --cookie 'session=…'   # non-interactive`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		cookie, _ := cmd.Flags().GetString("cookie")
		if cookie == "" {
			fmt.Printf("Open this URL in your browser and complete the sign-in:\n\n")
			fmt.Printf("  %s\n\n", ui.RenderAccent(a.client.LoginURL()))
			fmt.Printf("Then copy the session cookie from your browser's dev tools.\n\n")

			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Session cookie").
					Description("The full Cookie header value, e.g. session=…").
					EchoMode(huh.EchoModePassword).
					Value(&cookie),
			))
			if err := form.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		if cookie == "" {
			fmt.Fprintf(os.Stderr, "Error: no cookie provided\n")
			os.Exit(1)
		}

		if err := a.store.Save(cookie); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Re-wire with the fresh credential and verify it.
		a = mustApp()
		st, err := a.guard.CheckStatus(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying session: %v\n", err)
			os.Exit(1)
		}
		if !st.Authenticated {
			fmt.Fprintf(os.Stderr, "%s The server did not accept that cookie.\n", ui.RenderFail("✗"))
			os.Exit(1)
		}

		name := st.User.Name
		if name == "" {
			name = st.User.Email
		}
		if name == "" {
			name = st.User.ID
		}
		fmt.Printf("%s Signed in as %s\n", ui.RenderPass("✓"), name)
		if st.IsAdmin() {
			fmt.Printf("   Admin role active.\n")
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	GroupID: "auth",
	Short:   "Sign out and discard the stored credential",
	Long: `Sign out of the board.

The server-side logout is best effort: the local credential is discarded even
when the logout request fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		if err := a.guard.SignOut(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "%s Server logout failed (%v); local session cleared anyway.\n", ui.RenderWarn("⚠"), err)
		}
		if err := a.store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing credential: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Signed out.\n", ui.RenderPass("✓"))
	},
}

func init() {
	loginCmd.Flags().String("cookie", "", "session cookie to store (skips the prompt)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
