package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/testutil"
	"github.com/frahmantamala/smart-budget/internal/user"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Handler Integration", func() {
	var (
		store  *database.Store
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		store, err = testutil.NewStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		lg := testutil.DiscardLogger()
		repo := userPostgres.NewUserRepository(store.Gorm)
		svc := user.NewService(repo, database.NewTransactor(store.Gorm), bcrypt.MinCost, lg)
		h := user.NewHandler(svc, lg)

		router = chi.NewRouter()
		router.Post("/users", h.Register)
		router.Get("/users/{id}", h.GetUser)
		router.Delete("/users/{id}", h.DeleteUser)
	})

	register := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should register a user and never echo the password", func() {
		rec := register(`{"username":"alice","email":"alice@mail.com","password":"supersecret"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).NotTo(ContainSubstring("supersecret"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("password"))

		var resp user.UserResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.ID).To(BeNumerically(">", 0))
		Expect(resp.Username).To(Equal("alice"))
	})

	It("should return 409 on a duplicate email", func() {
		Expect(register(`{"username":"alice","email":"alice@mail.com","password":"supersecret"}`).Code).To(Equal(http.StatusCreated))
		rec := register(`{"username":"alice2","email":"alice@mail.com","password":"supersecret"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})

	It("should return 400 on malformed json", func() {
		Expect(register(`{"username":`).Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for a missing user", func() {
		req := httptest.NewRequest(http.MethodGet, "/users/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		var body map[string]map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("USER_NOT_FOUND"))
	})

	It("should return 400 for a non numeric id", func() {
		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should delete a user with 204", func() {
		u, err := testutil.InsertUser(store.Gorm, "carol")
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodDelete, "/users/"+itoa(u.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		req = httptest.NewRequest(http.MethodGet, "/users/"+itoa(u.ID), nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
