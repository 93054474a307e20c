package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/summary"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	sumByTypeQuery = `
SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE user_id = ?
  AND type = ?
  AND is_deleted = ?
  AND transaction_date BETWEEN ? AND ?`

	listCategorizedQuery = `
SELECT c.name AS category_name, t.amount AS amount
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = ?
  AND t.is_deleted = ?
  AND t.transaction_date BETWEEN ? AND ?
ORDER BY c.name, t.id`
)

// SummaryRepository runs the aggregation queries with sqlx on the shared connection pool.
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) summary.Repository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) ReadOnly(ctx context.Context, fn func(summary.Reader) error) error {
	var opts *sql.TxOptions
	// postgres: all three reads share one snapshot
	if r.db.DriverName() == "pgx" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&reader{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type reader struct {
	tx *sqlx.Tx
}

func (r *reader) SumByType(ctx context.Context, userID int64, typ ledger.EntryType, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.tx.GetContext(ctx, &total, r.tx.Rebind(sumByTypeQuery), userID, typ.String(), false, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *reader) ListCategorized(ctx context.Context, userID int64, start, end time.Time) ([]summary.CategoryAmount, error) {
	rows := []summary.CategoryAmount{}
	err := r.tx.SelectContext(ctx, &rows, r.tx.Rebind(listCategorizedQuery), userID, false, start, end)
	return rows, err
}
