package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-product-api/cmd/productctl/ui"
	"github.com/redmonkez12/go-product-api/internal/config"
	"github.com/redmonkez12/go-product-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
				if err := database.Migrate(cmd.Context(), db.DB); err != nil {
					return err
				}
				ui.PrintSuccess(cmd.OutOrStdout(), "Migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
				if err := database.MigrateDown(cmd.Context(), db.DB); err != nil {
					return err
				}
				ui.PrintSuccess(cmd.OutOrStdout(), "Rolled back one migration")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
				return database.MigrationStatus(cmd.Context(), db.DB)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
				version, err := database.SchemaVersion(cmd.Context(), db.DB)
				if err != nil {
					return err
				}
				ui.PrintField(cmd.OutOrStdout(), "Version", strconv.FormatInt(version, 10))
				return nil
			}),
		},
	)

	return migrateCmd
}

// withDB opens the configured database for the duration of fn.
func withDB(fn func(cmd *cobra.Command, db *bun.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		return fn(cmd, db)
	}
}
