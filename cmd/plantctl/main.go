// Command plantctl is the operator CLI: it applies database migrations and
// mints session cookies for local testing.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/plantopia/cmd/plantctl/ui"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "plantctl",
		Short:         "Plantopia operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().Bool("status", false, "Only print the migration status")

	mintCmd := &cobra.Command{
		Use:   "mint-session",
		Short: "Mint session cookies for a user (local testing)",
		Long:  "Mint a session token and profile hint cookie signed with SESSION_SECRET. Prompts for missing fields when --uid is not set.",
		RunE:  runMintSession,
	}
	mintCmd.Flags().String("uid", "", "User ID")
	mintCmd.Flags().String("email", "", "Email")
	mintCmd.Flags().String("name", "", "Display name")
	mintCmd.Flags().Bool("onboarded", false, "Mark onboarding as completed in the profile hint")
	mintCmd.Flags().Duration("ttl", 0, "Session lifetime (defaults to SESSION_DURATION)")

	rootCmd.AddCommand(migrateCmd, mintCmd)
	return rootCmd
}
