package postgres

import (
	"context"
	"errors"
	"fmt"

	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/user"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := database.Conn(ctx, r.db).Where("username = ? OR email = ?", login, login).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&userDatamodel.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return database.Conn(ctx, r.db).Create(u).Error
}

// DeleteCascade removes the user's transactions, detaches other users' transactions from the
// user's categories, removes the categories and finally the user row. Callers run it inside a
// transaction so a failure part-way leaves nothing deleted.
func (r *UserRepository) DeleteCascade(ctx context.Context, id int64) error {
	db := database.Conn(ctx, r.db)
	if err := db.Where("user_id = ?", id).Delete(&transactionDatamodel.Transaction{}).Error; err != nil {
		return fmt.Errorf("delete transactions of user %d: %w", id, err)
	}
	err := db.Model(&transactionDatamodel.Transaction{}).
		Where("category_id IN (SELECT id FROM categories WHERE user_id = ?)", id).
		Update("category_id", nil).Error
	if err != nil {
		return fmt.Errorf("detach transactions from categories of user %d: %w", id, err)
	}
	if err := db.Where("user_id = ?", id).Delete(&categoryDatamodel.Category{}).Error; err != nil {
		return fmt.Errorf("delete categories of user %d: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&userDatamodel.User{}).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
