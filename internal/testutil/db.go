// Package testutil provides shared fixtures for repository and handler tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/smart-budget/internal"
	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/user"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore opens a private in-memory SQLite database with the full schema migrated.
func NewStore() (*database.Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	return database.NewStore(db, internal.DriverSQLite)
}

// DiscardLogger returns a logger that only surfaces errors, on io.Discard.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func InsertUser(db *gorm.DB, username string) (*userDatamodel.User, error) {
	u := &userDatamodel.User{
		Username:     username,
		Email:        username + "@mail.com",
		PasswordHash: "hash",
	}
	return u, db.Create(u).Error
}

func InsertCategory(db *gorm.DB, userID int64, name string, typ ledger.EntryType) (*categoryDatamodel.Category, error) {
	c := &categoryDatamodel.Category{
		UserID: userID,
		Name:   name,
		Type:   typ.String(),
	}
	return c, db.Create(c).Error
}

func InsertTransaction(db *gorm.DB, userID int64, categoryID *int64, amount string, typ ledger.EntryType, date string) (*transactionDatamodel.Transaction, error) {
	d, err := ledger.ParseDate(date)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &transactionDatamodel.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount),
		Type:            typ.String(),
		TransactionDate: d,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return t, db.Create(t).Error
}

// PassthroughTransactor runs fn directly; used with mock repositories.
type PassthroughTransactor struct{}

func (PassthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
