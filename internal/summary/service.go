package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// Reader runs the aggregation queries. Every method filters on user, is_deleted = false and
// an inclusive transaction_date range.
type Reader interface {
	SumByType(ctx context.Context, userID int64, typ ledger.EntryType, start, end time.Time) (decimal.Decimal, error)
	ListCategorized(ctx context.Context, userID int64, start, end time.Time) ([]CategoryAmount, error)
}

type Repository interface {
	// ReadOnly hands fn a Reader bound to a single read transaction.
	ReadOnly(ctx context.Context, fn func(r Reader) error) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ComputeSummary totals income and expense for the user between start and end (both
// inclusive) and breaks categorized amounts down by category name. A range with no
// transactions, or an inverted one, yields zeros and an empty breakdown.
func (s *Service) ComputeSummary(ctx context.Context, userID int64, start, end time.Time) (*Summary, error) {
	if appErr := validation.ValidateDateRange(start, end); appErr != nil {
		return nil, appErr
	}
	start, end = ledger.DateOnly(start), ledger.DateOnly(end)

	result := &Summary{
		UserID:            userID,
		PeriodStart:       start,
		PeriodEnd:         end,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		CategoryBreakdown: map[string]decimal.Decimal{},
	}

	err := s.repo.ReadOnly(ctx, func(r Reader) error {
		income, err := r.SumByType(ctx, userID, ledger.Income, start, end)
		if err != nil {
			return fmt.Errorf("sum income: %w", err)
		}
		expense, err := r.SumByType(ctx, userID, ledger.Expense, start, end)
		if err != nil {
			return fmt.Errorf("sum expense: %w", err)
		}
		rows, err := r.ListCategorized(ctx, userID, start, end)
		if err != nil {
			return fmt.Errorf("list categorized amounts: %w", err)
		}

		result.TotalIncome = income.Round(ledger.AmountScale)
		result.TotalExpense = expense.Round(ledger.AmountScale)
		result.CategoryBreakdown = Breakdown(rows)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to compute summary", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to compute summary", err)
	}

	result.NetBalance = result.TotalIncome.Sub(result.TotalExpense)

	s.logger.Debug("summary computed",
		"user_id", userID,
		"start", start.Format(ledger.DateLayout),
		"end", end.Format(ledger.DateLayout),
		"categories", len(result.CategoryBreakdown))
	return result, nil
}
