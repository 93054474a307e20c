package transaction

import (
	"time"

	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64
	UserID          int64
	CategoryID      *int64
	Amount          decimal.Decimal
	Type            ledger.EntryType
	Description     *string
	Notes           *string
	TransactionDate time.Time
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Apply copies the payload fields onto t. Identity, timestamps and the deleted flag are left alone.
func (t *Transaction) Apply(dto SaveTransactionDTO) {
	t.UserID = dto.UserID
	t.CategoryID = dto.CategoryID
	if dto.Amount != nil {
		t.Amount = *dto.Amount
	}
	t.Type = dto.Type
	t.Description = dto.Description
	t.Notes = dto.Notes
	t.TransactionDate = ledger.DateOnly(dto.TransactionDate.Time)
}

func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Amount:          ledger.NewMoney(t.Amount),
		Type:            t.Type,
		Description:     t.Description,
		Notes:           t.Notes,
		TransactionDate: ledger.NewDate(t.TransactionDate),
		IsDeleted:       t.IsDeleted,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:              t.ID,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		Type:            t.Type.String(),
		Description:     t.Description,
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate,
		IsDeleted:       t.IsDeleted,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:              t.ID,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		Type:            ledger.EntryType(t.Type),
		Description:     t.Description,
		Notes:           t.Notes,
		TransactionDate: ledger.DateOnly(t.TransactionDate),
		IsDeleted:       t.IsDeleted,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
