package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/sirpyerre/inventory-api/internal/infrastructure/db/postgres"
	"github.com/sirpyerre/inventory-api/internal/pkg/config"
	"github.com/sirpyerre/inventory-api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", postgres.MigrateUp),
		migrateSubcommand("down", "Roll back the latest migration", postgres.MigrateDown),
		migrateSubcommand("status", "Print migration status", postgres.MigrationStatus),
	)
	return cmd
}

type migrateFunc func(ctx context.Context, db *sql.DB) error

func migrateSubcommand(use, short string, run migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.Init(logger.Options{Level: "info", Pretty: true, Service: "inventory-api"})

			pgCfg, err := config.LoadPostgres(ctx)
			if err != nil {
				return err
			}
			db, err := postgres.Connect(ctx, postgres.Config{DSN: pgCfg.DSN, MaxOpenConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := run(ctx, db); err != nil {
				return err
			}
			log.Info().Str("command", "migrate "+use).Msg("done")
			return nil
		},
	}
}
