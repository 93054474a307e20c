package category

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/smart-budget/internal"
	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	ListByUser(ctx context.Context, userID int64, typ *ledger.EntryType) ([]*categoryDatamodel.Category, error)
	// ExistsByUserAndName ignores the row with excludeID, so renaming a category to its own
	// name is not a conflict.
	ExistsByUserAndName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *categoryDatamodel.Category) error
	Update(ctx context.Context, c *categoryDatamodel.Category) error
	// Delete detaches referencing transactions and removes the category.
	Delete(ctx context.Context, id int64) error
}

// UserLookup is the only thing categories need to know about users.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserLookup
	tx     database.Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserLookup, tx database.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		tx:     tx,
		logger: logger,
	}
}

// Save creates a category, or overwrites the one dto.ID points at.
func (s *Service) Save(ctx context.Context, dto SaveCategoryDTO) (*Category, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	var saved *Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.save(ctx, dto)
		return err
	})
	if err != nil {
		return nil, s.wrap("failed to save category", err)
	}
	return saved, nil
}

// Update overwrites category id. Unlike Save it never inserts.
func (s *Service) Update(ctx context.Context, id int64, dto SaveCategoryDTO) (*Category, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	dto.ID = &id

	var saved *Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get category %d: %w", id, err)
		}
		if existing == nil {
			return errors.CategoryNotFound(id)
		}
		saved, err = s.save(ctx, dto)
		return err
	})
	if err != nil {
		return nil, s.wrap("failed to update category", err)
	}
	return saved, nil
}

func (s *Service) save(ctx context.Context, dto SaveCategoryDTO) (*Category, error) {
	exists, err := s.users.Exists(ctx, dto.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", dto.UserID, err)
	}
	if !exists {
		return nil, errors.UserNotFound(dto.UserID)
	}

	var existing *categoryDatamodel.Category
	if dto.ID != nil {
		existing, err = s.repo.GetByID(ctx, *dto.ID)
		if err != nil {
			return nil, fmt.Errorf("get category %d: %w", *dto.ID, err)
		}
	}

	var excludeID int64
	if existing != nil {
		excludeID = existing.ID
	}
	taken, err := s.repo.ExistsByUserAndName(ctx, dto.UserID, dto.Name, excludeID)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, errors.NewConflictError(fmt.Sprintf("category %q already exists for user %d", dto.Name, dto.UserID), errors.ErrCodeDuplicateCategory)
	}

	if existing != nil {
		c := FromDataModel(existing)
		c.Apply(dto)
		row := ToDataModel(c)
		if err := s.repo.Update(ctx, row); err != nil {
			return nil, fmt.Errorf("update category %d: %w", row.ID, err)
		}
		s.logger.Info("category updated", "category_id", row.ID, "user_id", row.UserID)
		return FromDataModel(row), nil
	}

	row := ToDataModel(NewCategory(dto))
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Info("category created", "category_id", row.ID, "user_id", row.UserID)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap("failed to get category", err)
	}
	if row == nil {
		return nil, errors.CategoryNotFound(id)
	}
	return FromDataModel(row), nil
}

// Exists reports whether a category with id is present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// ListByUser returns the user's categories ordered by name. An unknown user yields an empty list.
func (s *Service) ListByUser(ctx context.Context, userID int64, typ *ledger.EntryType) ([]*Category, error) {
	rows, err := s.repo.ListByUser(ctx, userID, typ)
	if err != nil {
		return nil, s.wrap("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromDataModel(row))
	}
	return categories, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get category %d: %w", id, err)
		}
		if existing == nil {
			return errors.CategoryNotFound(id)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return s.wrap("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// wrap passes AppErrors through and turns anything else into an internal error.
func (s *Service) wrap(message string, err error) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return errors.NewInternalError(message, err)
}
