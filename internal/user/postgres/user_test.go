package postgres_test

import (
	"context"
	"testing"

	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/testutil"
	"github.com/frahmantamala/smart-budget/internal/user"
	userPostgres "github.com/frahmantamala/smart-budget/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		store *database.Store
		repo  user.Repository
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		store, err = testutil.NewStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		repo = userPostgres.NewUserRepository(store.Gorm)
		ctx = context.Background()
	})

	It("should find users by username or email", func() {
		u, err := testutil.InsertUser(store.Gorm, "alice")
		Expect(err).NotTo(HaveOccurred())

		byName, err := repo.GetByLogin(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(byName.ID).To(Equal(u.ID))

		byEmail, err := repo.GetByLogin(ctx, "alice@mail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(u.ID))

		missing, err := repo.GetByLogin(ctx, "nobody")
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(BeNil())
	})

	It("should report existence", func() {
		u, err := testutil.InsertUser(store.Gorm, "alice")
		Expect(err).NotTo(HaveOccurred())

		exists, err := repo.Exists(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())

		exists, err = repo.Exists(ctx, u.ID+100)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())

		taken, err := repo.ExistsByUsernameOrEmail(ctx, "someone", "alice@mail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeTrue())
	})

	Describe("DeleteCascade", func() {
		It("should remove only the owner's categories and transactions", func() {
			alice, err := testutil.InsertUser(store.Gorm, "alice")
			Expect(err).NotTo(HaveOccurred())
			bob, err := testutil.InsertUser(store.Gorm, "bob")
			Expect(err).NotTo(HaveOccurred())

			food, err := testutil.InsertCategory(store.Gorm, alice.ID, "Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())
			_, err = testutil.InsertCategory(store.Gorm, bob.ID, "Food", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())

			_, err = testutil.InsertTransaction(store.Gorm, alice.ID, &food.ID, "12.50", ledger.Expense, "2024-01-10")
			Expect(err).NotTo(HaveOccurred())
			_, err = testutil.InsertTransaction(store.Gorm, bob.ID, nil, "99.00", ledger.Income, "2024-01-10")
			Expect(err).NotTo(HaveOccurred())

			tx := database.NewTransactor(store.Gorm)
			Expect(tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return repo.DeleteCascade(ctx, alice.ID)
			})).To(Succeed())

			var txCount, catCount int64
			store.Gorm.Model(&transactionDatamodel.Transaction{}).Where("user_id = ?", alice.ID).Count(&txCount)
			store.Gorm.Model(&categoryDatamodel.Category{}).Where("user_id = ?", alice.ID).Count(&catCount)
			Expect(txCount).To(BeZero())
			Expect(catCount).To(BeZero())

			store.Gorm.Model(&transactionDatamodel.Transaction{}).Where("user_id = ?", bob.ID).Count(&txCount)
			store.Gorm.Model(&categoryDatamodel.Category{}).Where("user_id = ?", bob.ID).Count(&catCount)
			Expect(txCount).To(Equal(int64(1)))
			Expect(catCount).To(Equal(int64(1)))

			got, err := repo.GetByID(ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should leave other users' transactions uncategorized instead of dangling", func() {
			alice, err := testutil.InsertUser(store.Gorm, "alice")
			Expect(err).NotTo(HaveOccurred())
			bob, err := testutil.InsertUser(store.Gorm, "bob")
			Expect(err).NotTo(HaveOccurred())

			shared, err := testutil.InsertCategory(store.Gorm, alice.ID, "Shared", ledger.Expense)
			Expect(err).NotTo(HaveOccurred())
			bobs, err := testutil.InsertTransaction(store.Gorm, bob.ID, &shared.ID, "20.00", ledger.Expense, "2024-02-01")
			Expect(err).NotTo(HaveOccurred())

			tx := database.NewTransactor(store.Gorm)
			Expect(tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return repo.DeleteCascade(ctx, alice.ID)
			})).To(Succeed())

			var reloaded transactionDatamodel.Transaction
			Expect(store.Gorm.First(&reloaded, bobs.ID).Error).To(Succeed())
			Expect(reloaded.CategoryID).To(BeNil())
			Expect(reloaded.UserID).To(Equal(bob.ID))
		})
	})
})
