package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short: "Run PostgreSQL schema migrations",
		Long: `Run the embedded goose migrations against TASKFLOW_DATABASE_URL.

The serve command applies pending migrations on startup, so this is only
needed to inspect or roll back the schema.

Examples:
  taskflow-api migrate status
  taskflow-api migrate down`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), validMigrationCommand),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			logger, err := setupAppLogger(cfg)
			if err != nil {
				return err
			}

			db, err := openSQL(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("Error closing database connection", slog.String("error", err.Error()))
				}
			}()

			return postgres.Migrate(cmd.Context(), db, args[0], logger)
		},
	}
}

func validMigrationCommand(_ *cobra.Command, args []string) error {
	if !slices.Contains(postgres.MigrationCommands, args[0]) {
		return fmt.Errorf("unknown migration command %q (expected one of %s)",
			args[0], strings.Join(postgres.MigrationCommands, ", "))
	}
	return nil
}
