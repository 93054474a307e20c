package transaction

import (
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// SaveTransactionDTO carries a transaction create or update. Amount accepts a JSON number or
// string and is kept exact.
type SaveTransactionDTO struct {
	ID              *int64           `json:"id,omitempty"`
	UserID          int64            `json:"user_id"`
	CategoryID      *int64           `json:"category_id,omitempty"`
	Amount          *decimal.Decimal `json:"amount"`
	Type            ledger.EntryType `json:"type"`
	Description     *string          `json:"description,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TransactionDate ledger.Date      `json:"transaction_date"`
}

func (dto SaveTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required().Positive(errors.ErrCodeInvalidID)
	v.Field("category_id", dto.CategoryID).Positive(errors.ErrCodeInvalidID)
	v.Field("amount", dto.Amount).
		Required().
		MinDecimal(ledger.MinAmount, errors.ErrCodeInvalidAmount).
		MaxDecimal(ledger.MaxAmount, errors.ErrCodeInvalidAmount).
		MaxScale(ledger.AmountScale, errors.ErrCodeInvalidAmount)
	v.Field("type", dto.Type).Required().EntryType()
	v.Field("description", dto.Description).MaxLength(255)
	v.Field("transaction_date", dto.TransactionDate.Time).Required()
	return v.Validate()
}

// Filter selects non-deleted transactions of one user. Zero Start and End mean no date bound;
// Limit 0 means no limit.
type Filter struct {
	UserID     int64
	Start      time.Time
	End        time.Time
	Type       *ledger.EntryType
	CategoryID *int64
	Limit      int
	Offset     int
}

type TransactionResponse struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	CategoryID      *int64           `json:"category_id"`
	Amount          ledger.Money     `json:"amount"`
	Type            ledger.EntryType `json:"type"`
	Description     *string          `json:"description,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TransactionDate ledger.Date      `json:"transaction_date"`
	IsDeleted       bool             `json:"is_deleted"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}
