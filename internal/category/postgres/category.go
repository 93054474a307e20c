package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/smart-budget/internal/category"
	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64, typ *ledger.EntryType) ([]*categoryDatamodel.Category, error) {
	query := database.Conn(ctx, r.db).Where("user_id = ?", userID)
	if typ != nil {
		query = query.Where("type = ?", typ.String())
	}

	var categories []*categoryDatamodel.Category
	err := query.Order("name ASC").Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) ExistsByUserAndName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&categoryDatamodel.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.Conn(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.Conn(ctx, r.db).Save(cat).Error
}

// Delete clears category_id on every transaction that points at the category, then removes
// the row. The migration's ON DELETE SET NULL does the same at the store level.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	db := database.Conn(ctx, r.db)
	err := db.Model(&transactionDatamodel.Transaction{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error
	if err != nil {
		return fmt.Errorf("detach transactions from category %d: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&categoryDatamodel.Category{}).Error; err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
