package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/plantopia/cmd/plantctl/ui"
	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/database"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	statusOnly, _ := cmd.Flags().GetBool("status")

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()
	db, err := database.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if statusOnly {
		return database.MigrationStatus(ctx, db)
	}

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Migrations applied")
	return nil
}
