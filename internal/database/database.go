package database

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/smart-budget/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store bundles the two handles the service runs on: gorm for row CRUD and sqlx for the
// hand-written aggregation queries. Both share one *sql.DB pool.
type Store struct {
	Gorm   *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

// SQLXDriverName maps a configured driver to the name sqlx uses to pick bind variables.
func SQLXDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// Open connects to the configured database and verifies the connection.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*Store, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.LogQueries {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	case internal.DriverPostgres, "":
		dialector = postgres.New(postgres.Config{
			DSN:        cfg.Source,
			DriverName: "pgx",
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if cfg.Driver == internal.DriverSQLite {
		_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	}

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if lg != nil {
		lg.Info("database connected", "driver", cfg.Driver, "max_open_conns", cfg.MaxOpenConns)
	}

	return NewStore(db, cfg.Driver)
}

// NewStore wraps an already opened gorm connection.
func NewStore(db *gorm.DB, driver string) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	return &Store{
		Gorm:   db,
		SQL:    sqlx.NewDb(sqlDB, SQLXDriverName(driver)),
		Driver: driver,
	}, nil
}

func (s *Store) Close() error {
	return s.SQL.Close()
}
