package summary

import (
	"time"

	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// Summary aggregates one user's non-deleted transactions over an inclusive date range.
type Summary struct {
	UserID            int64
	PeriodStart       time.Time
	PeriodEnd         time.Time
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	NetBalance        decimal.Decimal
	CategoryBreakdown map[string]decimal.Decimal
}

// CategoryAmount is one categorized transaction as read for the breakdown.
type CategoryAmount struct {
	CategoryName string          `db:"category_name"`
	Amount       decimal.Decimal `db:"amount"`
}

// Breakdown sums amounts per category name. Income and expense under the same name are added
// together.
func Breakdown(rows []CategoryAmount) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.CategoryName] = out[row.CategoryName].Add(row.Amount)
	}
	for name, total := range out {
		out[name] = total.Round(ledger.AmountScale)
	}
	return out
}

func (s *Summary) ToResponse() SummaryResponse {
	breakdown := make(map[string]ledger.Money, len(s.CategoryBreakdown))
	for name, total := range s.CategoryBreakdown {
		breakdown[name] = ledger.NewMoney(total)
	}
	return SummaryResponse{
		UserID:            s.UserID,
		PeriodStart:       ledger.NewDate(s.PeriodStart),
		PeriodEnd:         ledger.NewDate(s.PeriodEnd),
		TotalIncome:       ledger.NewMoney(s.TotalIncome),
		TotalExpense:      ledger.NewMoney(s.TotalExpense),
		NetBalance:        ledger.NewMoney(s.NetBalance),
		CategoryBreakdown: breakdown,
	}
}

type SummaryResponse struct {
	UserID            int64                   `json:"user_id"`
	PeriodStart       ledger.Date             `json:"period_start"`
	PeriodEnd         ledger.Date             `json:"period_end"`
	TotalIncome       ledger.Money            `json:"total_income"`
	TotalExpense      ledger.Money            `json:"total_expense"`
	NetBalance        ledger.Money            `json:"net_balance"`
	CategoryBreakdown map[string]ledger.Money `json:"category_breakdown"`
}
