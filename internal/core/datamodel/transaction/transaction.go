package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64           `gorm:"primaryKey"`
	UserID          int64           `gorm:"column:user_id;not null;index:idx_transactions_user_date"`
	CategoryID      *int64          `gorm:"column:category_id;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Type            string          `gorm:"column:type;size:10;not null"`
	Description     *string         `gorm:"column:description;size:255"`
	Notes           *string         `gorm:"column:notes;type:text"`
	TransactionDate time.Time       `gorm:"column:transaction_date;type:date;not null;index:idx_transactions_user_date"`
	IsDeleted       bool            `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
