package summary_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/smart-budget/internal/category"
	categoryPostgres "github.com/frahmantamala/smart-budget/internal/category/postgres"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/summary"
	summaryPostgres "github.com/frahmantamala/smart-budget/internal/summary/postgres"
	"github.com/frahmantamala/smart-budget/internal/testutil"
	"github.com/frahmantamala/smart-budget/internal/transaction"
	transactionPostgres "github.com/frahmantamala/smart-budget/internal/transaction/postgres"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

type summaryBody struct {
	UserID            int64             `json:"user_id"`
	PeriodStart       string            `json:"period_start"`
	PeriodEnd         string            `json:"period_end"`
	TotalIncome       string            `json:"total_income"`
	TotalExpense      string            `json:"total_expense"`
	NetBalance        string            `json:"net_balance"`
	CategoryBreakdown map[string]string `json:"category_breakdown"`
}

var _ = Describe("Summary scenarios", func() {
	var (
		store        *database.Store
		router       *chi.Mux
		categories   *category.Service
		transactions *transaction.Service
		ctx          context.Context
		userID       int64
	)

	BeforeEach(func() {
		var err error
		store, err = testutil.NewStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		lg := testutil.DiscardLogger()
		tx := database.NewTransactor(store.Gorm)
		users := userPostgres.NewUserRepository(store.Gorm)
		categories = category.NewService(categoryPostgres.NewCategoryRepository(store.Gorm), users, tx, lg)
		transactions = transaction.NewService(transactionPostgres.NewTransactionRepository(store.Gorm), users, categories, tx, lg)
		h := summary.NewHandler(summary.NewService(summaryPostgres.NewSummaryRepository(store.SQL), lg), lg)

		router = chi.NewRouter()
		router.Get("/transactions/summary", h.GetSummary)

		u, err := testutil.InsertUser(store.Gorm, "u1")
		Expect(err).NotTo(HaveOccurred())
		userID = u.ID
		ctx = context.Background()
	})

	get := func(query string) (*httptest.ResponseRecorder, summaryBody) {
		req := httptest.NewRequest(http.MethodGet, "/transactions/summary?"+query, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var body summaryBody
		if rec.Code == http.StatusOK {
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		}
		return rec, body
	}

	january := func() string {
		return fmt.Sprintf("user_id=%d&start_date=2024-01-01&end_date=2024-01-31", userID)
	}

	createCategory := func(name string, typ ledger.EntryType) int64 {
		c, err := categories.Save(ctx, category.SaveCategoryDTO{UserID: userID, Name: name, Type: typ})
		Expect(err).NotTo(HaveOccurred())
		return c.ID
	}

	createTransaction := func(categoryID *int64, amount string, typ ledger.EntryType, date string) *transaction.Transaction {
		d, err := ledger.ParseDate(date)
		Expect(err).NotTo(HaveOccurred())
		amt := decimal.RequireFromString(amount)
		t, err := transactions.Save(ctx, transaction.SaveTransactionDTO{
			UserID:          userID,
			CategoryID:      categoryID,
			Amount:          &amt,
			Type:            typ,
			TransactionDate: ledger.NewDate(d),
		})
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	It("should report a lone categorized expense as a negative balance", func() {
		food := createCategory("Food", ledger.Expense)
		createTransaction(&food, "50.00", ledger.Expense, "2024-01-15")

		rec, body := get(january())
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body.TotalIncome).To(Equal("0.00"))
		Expect(body.TotalExpense).To(Equal("50.00"))
		Expect(body.NetBalance).To(Equal("-50.00"))
		Expect(body.CategoryBreakdown).To(Equal(map[string]string{"Food": "50.00"}))
		Expect(body.PeriodStart).To(Equal("2024-01-01"))
		Expect(body.PeriodEnd).To(Equal("2024-01-31"))
	})

	It("should count income dated on the start bound in totals and breakdown", func() {
		food := createCategory("Food", ledger.Expense)
		salary := createCategory("Salary", ledger.Income)
		createTransaction(&food, "50.00", ledger.Expense, "2024-01-15")
		createTransaction(&salary, "3000.00", ledger.Income, "2024-01-01")

		_, body := get(january())
		Expect(body.TotalIncome).To(Equal("3000.00"))
		Expect(body.TotalExpense).To(Equal("50.00"))
		Expect(body.NetBalance).To(Equal("2950.00"))
		Expect(body.CategoryBreakdown).To(Equal(map[string]string{"Food": "50.00", "Salary": "3000.00"}))
	})

	It("should return zeros and an empty breakdown for a range with no transactions", func() {
		rec, body := get(january())
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body.TotalIncome).To(Equal("0.00"))
		Expect(body.TotalExpense).To(Equal("0.00"))
		Expect(body.NetBalance).To(Equal("0.00"))
		Expect(body.CategoryBreakdown).To(BeEmpty())
		Expect(rec.Body.String()).To(ContainSubstring(`"category_breakdown":{}`))
	})

	It("should drop transactions one day outside either bound", func() {
		food := createCategory("Food", ledger.Expense)
		createTransaction(&food, "1.00", ledger.Expense, "2023-12-31")
		createTransaction(&food, "2.00", ledger.Expense, "2024-01-31")
		createTransaction(&food, "4.00", ledger.Expense, "2024-02-01")

		_, body := get(january())
		Expect(body.TotalExpense).To(Equal("2.00"))
	})

	It("should exclude soft-deleted transactions and keep uncategorized ones out of the breakdown", func() {
		food := createCategory("Food", ledger.Expense)
		createTransaction(&food, "20.00", ledger.Expense, "2024-01-05")
		createTransaction(nil, "5.00", ledger.Expense, "2024-01-06")
		gone := createTransaction(&food, "80.00", ledger.Expense, "2024-01-07")
		Expect(transactions.Delete(ctx, gone.ID)).To(Succeed())

		_, body := get(january())
		Expect(body.TotalExpense).To(Equal("25.00"))
		Expect(body.CategoryBreakdown).To(Equal(map[string]string{"Food": "20.00"}))
	})

	It("should add income and expense of the same category together", func() {
		side := createCategory("Side job", ledger.Income)
		createTransaction(&side, "100.00", ledger.Income, "2024-01-02")
		createTransaction(&side, "30.00", ledger.Expense, "2024-01-03")

		_, body := get(january())
		Expect(body.NetBalance).To(Equal("70.00"))
		Expect(body.CategoryBreakdown["Side job"]).To(Equal("130.00"))
	})

	type row struct {
		category string
		amount   string
		typ      ledger.EntryType
		date     string
		deleted  bool
	}

	DescribeTable("breakdown values add up to every live categorized amount in range",
		func(rows []row) {
			ids := map[string]int64{}
			expected := decimal.Zero
			for _, r := range rows {
				var categoryID *int64
				if r.category != "" {
					if _, ok := ids[r.category]; !ok {
						ids[r.category] = createCategory(r.category, r.typ)
					}
					id := ids[r.category]
					categoryID = &id
				}
				t := createTransaction(categoryID, r.amount, r.typ, r.date)
				if r.deleted {
					Expect(transactions.Delete(ctx, t.ID)).To(Succeed())
				}
				inRange := r.date >= "2024-01-01" && r.date <= "2024-01-31"
				if categoryID != nil && !r.deleted && inRange {
					expected = expected.Add(decimal.RequireFromString(r.amount))
				}
			}

			rec, body := get(january())
			Expect(rec.Code).To(Equal(http.StatusOK))

			total := decimal.Zero
			for _, v := range body.CategoryBreakdown {
				total = total.Add(decimal.RequireFromString(v))
			}
			Expect(total.Equal(expected)).To(BeTrue(), "breakdown %s, expected %s", total, expected)

			income := decimal.RequireFromString(body.TotalIncome)
			expense := decimal.RequireFromString(body.TotalExpense)
			Expect(decimal.RequireFromString(body.NetBalance).Equal(income.Sub(expense))).To(BeTrue())
		},
		Entry("mixed income and expense", []row{
			{"Salary", "3000.00", ledger.Income, "2024-01-01", false},
			{"Food", "12.35", ledger.Expense, "2024-01-09", false},
			{"Food", "7.65", ledger.Expense, "2024-01-31", false},
		}),
		Entry("with uncategorized and deleted rows", []row{
			{"Rent", "950.00", ledger.Expense, "2024-01-03", false},
			{"", "40.10", ledger.Expense, "2024-01-04", false},
			{"Rent", "950.00", ledger.Expense, "2024-01-05", true},
			{"Bonus", "0.01", ledger.Income, "2024-01-20", false},
			{"", "500.00", ledger.Income, "2024-01-21", false},
		}),
		Entry("with rows outside the range", []row{
			{"Travel", "120.00", ledger.Expense, "2023-12-31", false},
			{"Travel", "80.40", ledger.Expense, "2024-01-15", false},
			{"Gifts", "15.00", ledger.Income, "2024-02-01", false},
		}),
		Entry("with every row deleted", []row{
			{"Food", "10.00", ledger.Expense, "2024-01-10", true},
		}),
	)

	It("should reject a malformed date", func() {
		rec, _ := get(fmt.Sprintf("user_id=%d&start_date=2024-13-01&end_date=2024-01-31", userID))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
