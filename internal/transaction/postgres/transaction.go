package postgres

import (
	"context"
	"errors"
	"time"

	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/transaction"
	"gorm.io/gorm"
)

// TransactionRepository implements transaction.Repository using GORM
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]*transactionDatamodel.Transaction, error) {
	query := database.Conn(ctx, r.db).
		Where("user_id = ? AND is_deleted = ?", f.UserID, false)

	if !f.Start.IsZero() {
		query = query.Where("transaction_date >= ?", f.Start)
	}
	if !f.End.IsZero() {
		query = query.Where("transaction_date <= ?", f.End)
	}
	if f.Type != nil {
		query = query.Where("type = ?", f.Type.String())
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var transactions []*transactionDatamodel.Transaction
	err := query.
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return database.Conn(ctx, r.db).Create(t).Error
}

// Update writes every column of t. UpdatedAt is expected to be set by the caller.
func (r *TransactionRepository) Update(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return database.Conn(ctx, r.db).Save(t).Error
}

func (r *TransactionRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return database.Conn(ctx, r.db).Model(&transactionDatamodel.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": at,
		}).Error
}
