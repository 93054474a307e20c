package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// GetByID does not filter soft-deleted rows.
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	// List returns non-deleted rows ordered by transaction_date DESC, id DESC.
	List(ctx context.Context, f Filter) ([]*transactionDatamodel.Transaction, error)
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	Update(ctx context.Context, t *transactionDatamodel.Transaction) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type CategoryLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo       Repository
	users      UserLookup
	categories CategoryLookup
	tx         database.Transactor
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, users UserLookup, categories CategoryLookup, tx database.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		categories: categories,
		tx:         tx,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at and updated_at.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Save creates a transaction, or overwrites the one dto.ID points at.
func (s *Service) Save(ctx context.Context, dto SaveTransactionDTO) (*Transaction, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	var saved *Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.save(ctx, dto)
		return err
	})
	if err != nil {
		return nil, s.wrap("failed to save transaction", err)
	}
	return saved, nil
}

// Update overwrites transaction id. Unlike Save it never inserts.
func (s *Service) Update(ctx context.Context, id int64, dto SaveTransactionDTO) (*Transaction, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	dto.ID = &id

	var saved *Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get transaction %d: %w", id, err)
		}
		if existing == nil {
			return errors.TransactionNotFound(id)
		}
		saved, err = s.save(ctx, dto)
		return err
	})
	if err != nil {
		return nil, s.wrap("failed to update transaction", err)
	}
	return saved, nil
}

func (s *Service) save(ctx context.Context, dto SaveTransactionDTO) (*Transaction, error) {
	amount := decimal.Zero
	if dto.Amount != nil {
		amount = *dto.Amount
	}
	// never persist a non-positive amount, whatever the caller validated
	if appErr := validation.ValidateAmount(amount); appErr != nil {
		return nil, appErr
	}

	exists, err := s.users.Exists(ctx, dto.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", dto.UserID, err)
	}
	if !exists {
		return nil, errors.UserNotFound(dto.UserID)
	}

	if dto.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *dto.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("check category %d: %w", *dto.CategoryID, err)
		}
		if !exists {
			return nil, errors.CategoryNotFound(*dto.CategoryID)
		}
	}

	now := s.now()

	if dto.ID != nil {
		existing, err := s.repo.GetByID(ctx, *dto.ID)
		if err != nil {
			return nil, fmt.Errorf("get transaction %d: %w", *dto.ID, err)
		}
		if existing != nil {
			t := FromDataModel(existing)
			t.Apply(dto)
			t.UpdatedAt = now
			row := ToDataModel(t)
			if err := s.repo.Update(ctx, row); err != nil {
				return nil, fmt.Errorf("update transaction %d: %w", row.ID, err)
			}
			s.logger.Info("transaction updated", "transaction_id", row.ID, "user_id", row.UserID)
			return FromDataModel(row), nil
		}
	}

	t := &Transaction{CreatedAt: now, UpdatedAt: now}
	t.Apply(dto)
	row := ToDataModel(t)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", row.ID,
		"user_id", row.UserID,
		"type", row.Type,
		"amount", row.Amount.String())
	return FromDataModel(row), nil
}

// GetByID returns the transaction even when it has been soft-deleted.
func (s *Service) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap("failed to get transaction", err)
	}
	if row == nil {
		return nil, errors.TransactionNotFound(id)
	}
	return FromDataModel(row), nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Transaction, error) {
	return s.List(ctx, Filter{UserID: userID})
}

// ListByUserAndDateRange returns non-deleted transactions dated within [start, end], newest
// first. An inverted range matches nothing.
func (s *Service) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*Transaction, error) {
	if appErr := validation.ValidateDateRange(start, end); appErr != nil {
		return nil, appErr
	}
	return s.List(ctx, Filter{UserID: userID, Start: start, End: end})
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Transaction, error) {
	if !f.Start.IsZero() {
		f.Start = ledger.DateOnly(f.Start)
	}
	if !f.End.IsZero() {
		f.End = ledger.DateOnly(f.End)
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return []*Transaction{}, nil
	}

	rows, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, s.wrap("failed to list transactions", err)
	}

	transactions := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, FromDataModel(row))
	}
	return transactions, nil
}

// Delete flags the transaction as deleted. The row stays and remains readable by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get transaction %d: %w", id, err)
		}
		if existing == nil {
			return errors.TransactionNotFound(id)
		}
		return s.repo.SoftDelete(ctx, id, s.now())
	})
	if err != nil {
		return s.wrap("failed to delete transaction", err)
	}

	s.logger.Info("transaction soft-deleted", "transaction_id", id)
	return nil
}

func (s *Service) wrap(message string, err error) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return errors.NewInternalError(message, err)
}
