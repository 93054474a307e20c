package transaction_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/smart-budget/internal/category"
	categoryPostgres "github.com/frahmantamala/smart-budget/internal/category/postgres"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/testutil"
	"github.com/frahmantamala/smart-budget/internal/transaction"
	transactionPostgres "github.com/frahmantamala/smart-budget/internal/transaction/postgres"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transaction Handler Integration", func() {
	var (
		store  *database.Store
		router *chi.Mux
		userID int64
		bobID  int64
	)

	BeforeEach(func() {
		var err error
		store, err = testutil.NewStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		lg := testutil.DiscardLogger()
		tx := database.NewTransactor(store.Gorm)
		users := userPostgres.NewUserRepository(store.Gorm)
		categories := category.NewService(categoryPostgres.NewCategoryRepository(store.Gorm), users, tx, lg)
		svc := transaction.NewService(transactionPostgres.NewTransactionRepository(store.Gorm), users, categories, tx, lg)
		h := transaction.NewHandler(svc, lg)

		router = chi.NewRouter()
		router.Post("/transactions", h.CreateTransaction)
		router.Get("/transactions", h.GetTransactions)
		router.Get("/transactions/range", h.GetTransactionsInRange)
		router.Get("/transactions/{id}", h.GetTransaction)
		router.Put("/transactions/{id}", h.UpdateTransaction)
		router.Delete("/transactions/{id}", h.DeleteTransaction)
		router.Delete("/categories/{id}", category.NewHandler(categories, lg).DeleteCategory)

		alice, err := testutil.InsertUser(store.Gorm, "alice")
		Expect(err).NotTo(HaveOccurred())
		bob, err := testutil.InsertUser(store.Gorm, "bob")
		Expect(err).NotTo(HaveOccurred())
		userID, bobID = alice.ID, bob.ID
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	countRows := func() int64 {
		var n int64
		Expect(store.Gorm.Model(&transactionDatamodel.Transaction{}).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("POST /transactions", func() {
		It("should create a transaction", func() {
			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"amount":"250.75","type":"EXPENSE","description":"rent share","transaction_date":"2024-01-15"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var resp transaction.TransactionResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(BeNumerically(">", 0))
			Expect(resp.Amount.String()).To(Equal("250.75"))
			Expect(resp.TransactionDate.String()).To(Equal("2024-01-15"))
			Expect(resp.IsDeleted).To(BeFalse())
		})

		It("should return 404 and persist nothing for an unknown user", func() {
			rec := do(http.MethodPost, "/transactions",
				`{"user_id":4242,"amount":10,"type":"EXPENSE","transaction_date":"2024-01-15"}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(countRows()).To(BeZero())
		})

		It("should return 404 for an unknown category", func() {
			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"category_id":777,"amount":10,"type":"EXPENSE","transaction_date":"2024-01-15"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(countRows()).To(BeZero())
		})

		It("should accept a category owned by another user", func() {
			c, err := testutil.InsertCategory(store.Gorm, bobID, "Bob Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"category_id":%d,"amount":10,"type":"EXPENSE","transaction_date":"2024-01-15"}`, userID, c.ID))
			Expect(rec.Code).To(Equal(http.StatusCreated))
		})

		It("should return 400 for a zero amount", func() {
			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"amount":0,"type":"EXPENSE","transaction_date":"2024-01-15"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(countRows()).To(BeZero())
		})

		It("should return 400 for an amount beyond numeric(14,2)", func() {
			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"amount":"1000000000000.00","type":"INCOME","transaction_date":"2024-01-15"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("INVALID_AMOUNT"))
			Expect(countRows()).To(BeZero())
		})

		It("should return 400 for a malformed date", func() {
			rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
				`{"user_id":%d,"amount":5,"type":"EXPENSE","transaction_date":"15/01/2024"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("listing and soft delete", func() {
		var deletedID int64

		BeforeEach(func() {
			_, err := testutil.InsertTransaction(store.Gorm, userID, nil, "100.00", ledger.Income, "2024-01-01")
			Expect(err).NotTo(HaveOccurred())
			_, err = testutil.InsertTransaction(store.Gorm, userID, nil, "40.00", ledger.Expense, "2024-01-31")
			Expect(err).NotTo(HaveOccurred())
			t, err := testutil.InsertTransaction(store.Gorm, userID, nil, "60.00", ledger.Expense, "2024-01-20")
			Expect(err).NotTo(HaveOccurred())
			deletedID = t.ID

			Expect(do(http.MethodDelete, fmt.Sprintf("/transactions/%d", deletedID), "").Code).To(Equal(http.StatusNoContent))
		})

		It("should hide soft-deleted rows from the user listing", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions?user_id=%d", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(2))
		})

		It("should page the user listing, honouring offset without limit", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions?user_id=%d&limit=1", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(1))
			Expect(resp.Transactions[0].TransactionDate.String()).To(Equal("2024-01-31"))

			rec = do(http.MethodGet, fmt.Sprintf("/transactions?user_id=%d&offset=1", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(1))
			Expect(resp.Transactions[0].TransactionDate.String()).To(Equal("2024-01-01"))
		})

		It("should hide soft-deleted rows from the range listing and include the bounds", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions/range?user_id=%d&start_date=2024-01-01&end_date=2024-01-31", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(2))
			Expect(resp.Transactions[0].TransactionDate.String()).To(Equal("2024-01-31"))
		})

		It("should filter the range listing by type", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions/range?user_id=%d&start_date=2024-01-01&end_date=2024-01-31&type=INCOME", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(1))
		})

		It("should return an empty list for an inverted range", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions/range?user_id=%d&start_date=2024-02-01&end_date=2024-01-01", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"count":0`))
		})

		It("should still return the soft-deleted row by id", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions/%d", deletedID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.IsDeleted).To(BeTrue())
		})

		It("should require start_date on the range listing", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/transactions/range?user_id=%d&end_date=2024-01-31", userID), "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("should leave the transaction uncategorized when its category is deleted", func() {
		c, err := testutil.InsertCategory(store.Gorm, userID, "Food", ledger.Expense)
		Expect(err).NotTo(HaveOccurred())
		t, err := testutil.InsertTransaction(store.Gorm, userID, &c.ID, "50.00", ledger.Expense, "2024-01-15")
		Expect(err).NotTo(HaveOccurred())

		Expect(do(http.MethodDelete, fmt.Sprintf("/categories/%d", c.ID), "").Code).To(Equal(http.StatusNoContent))

		rec := do(http.MethodGet, fmt.Sprintf("/transactions/%d", t.ID), "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp transaction.TransactionResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.CategoryID).To(BeNil())
		Expect(rec.Body.String()).To(ContainSubstring(`"category_id":null`))
	})

	Describe("PUT /transactions/{id}", func() {
		It("should return 404 for a missing transaction", func() {
			rec := do(http.MethodPut, "/transactions/31337", fmt.Sprintf(
				`{"user_id":%d,"amount":5,"type":"EXPENSE","transaction_date":"2024-01-15"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(countRows()).To(BeZero())
		})

		It("should update an existing transaction", func() {
			t, err := testutil.InsertTransaction(store.Gorm, userID, nil, "5.00", ledger.Expense, "2024-01-15")
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodPut, fmt.Sprintf("/transactions/%d", t.ID), fmt.Sprintf(
				`{"user_id":%d,"amount":"7.25","type":"EXPENSE","transaction_date":"2024-01-16"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(Equal(t.ID))
			Expect(resp.Amount.String()).To(Equal("7.25"))
			Expect(resp.TransactionDate.String()).To(Equal("2024-01-16"))
		})
	})
})
