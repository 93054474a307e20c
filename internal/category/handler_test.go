package category_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/smart-budget/internal/category"
	categoryPostgres "github.com/frahmantamala/smart-budget/internal/category/postgres"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/testutil"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		store  *database.Store
		router *chi.Mux
		userID int64
	)

	BeforeEach(func() {
		var err error
		store, err = testutil.NewStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		lg := testutil.DiscardLogger()
		svc := category.NewService(
			categoryPostgres.NewCategoryRepository(store.Gorm),
			userPostgres.NewUserRepository(store.Gorm),
			database.NewTransactor(store.Gorm),
			lg,
		)
		h := category.NewHandler(svc, lg)

		router = chi.NewRouter()
		router.Post("/categories", h.CreateCategory)
		router.Get("/categories", h.GetCategories)
		router.Get("/categories/{id}", h.GetCategory)
		router.Put("/categories/{id}", h.UpdateCategory)
		router.Delete("/categories/{id}", h.DeleteCategory)

		u, err := testutil.InsertUser(store.Gorm, "alice")
		Expect(err).NotTo(HaveOccurred())
		userID = u.ID
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

	Describe("POST /categories", func() {
		It("should create a category and accept a lowercase type", func() {
			rec := do(http.MethodPost, "/categories", fmt.Sprintf(`{"user_id":%d,"name":"Salary","type":"income","color":"#00AA00"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var resp category.CategoryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(BeNumerically(">", 0))
			Expect(resp.Type).To(Equal(ledger.Income))
		})

		It("should return 404 when the user does not exist", func() {
			rec := do(http.MethodPost, "/categories", `{"user_id":999,"name":"Salary","type":"INCOME"}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 when the name is missing", func() {
			rec := do(http.MethodPost, "/categories", fmt.Sprintf(`{"user_id":%d,"type":"INCOME"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var body map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["error"]["code"]).To(Equal("VALIDATION_FAILED"))
		})

		It("should return 409 on a duplicate name", func() {
			payload := fmt.Sprintf(`{"user_id":%d,"name":"Food","type":"EXPENSE"}`, userID)
			Expect(do(http.MethodPost, "/categories", payload).Code).To(Equal(http.StatusCreated))
			Expect(do(http.MethodPost, "/categories", payload).Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("GET /categories", func() {
		BeforeEach(func() {
			_, err := testutil.InsertCategory(store.Gorm, userID, "Salary", ledger.Income)
			Expect(err).NotTo(HaveOccurred())
			_, err = testutil.InsertCategory(store.Gorm, userID, "Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list the user's categories", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/categories?user_id=%d", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp category.CategoriesResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(2))
		})

		It("should filter by type", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/categories?user_id=%d&type=expense", userID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp category.CategoriesResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Count).To(Equal(1))
			Expect(resp.Categories[0].Name).To(Equal("Food"))
		})

		It("should require user_id", func() {
			Expect(do(http.MethodGet, "/categories", "").Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PUT and DELETE /categories/{id}", func() {
		It("should update in place", func() {
			c, err := testutil.InsertCategory(store.Gorm, userID, "Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodPut, fmt.Sprintf("/categories/%d", c.ID), fmt.Sprintf(`{"user_id":%d,"name":"Groceries","type":"EXPENSE"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp category.CategoryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(Equal(c.ID))
			Expect(resp.Name).To(Equal("Groceries"))
		})

		It("should return 404 when updating a missing category", func() {
			rec := do(http.MethodPut, "/categories/404", fmt.Sprintf(`{"user_id":%d,"name":"X","type":"EXPENSE"}`, userID))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should delete and then report not found", func() {
			c, err := testutil.InsertCategory(store.Gorm, userID, "Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())

			Expect(do(http.MethodDelete, fmt.Sprintf("/categories/%d", c.ID), "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodGet, fmt.Sprintf("/categories/%d", c.ID), "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodDelete, fmt.Sprintf("/categories/%d", c.ID), "").Code).To(Equal(http.StatusNotFound))
		})
	})
})
