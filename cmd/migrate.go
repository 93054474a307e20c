package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

	// the SQL migrations are PostgreSQL only; sqlite gets its schema from the data models
	if cfg.Database.Driver == internal.DriverSQLite {
		store, err := database.Open(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer store.Close()

		if migrateRollback {
			return fmt.Errorf("rollback is not supported for driver %q", cfg.Database.Driver)
		}
		if err := database.AutoMigrate(store.Gorm); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		lg.Info("schema migrated", "driver", cfg.Database.Driver)
		return nil
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	lg.Info("migrations applied", "command", command, "dir", migrateDir)
	return nil
}
