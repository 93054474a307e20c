package category

import (
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
)

// SaveCategoryDTO carries a category create or update. When ID resolves to an existing row
// that row is overwritten; otherwise a new category is inserted.
type SaveCategoryDTO struct {
	ID          *int64           `json:"id,omitempty"`
	UserID      int64            `json:"user_id"`
	Name        string           `json:"name"`
	Type        ledger.EntryType `json:"type"`
	Color       *string          `json:"color,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsDefault   bool             `json:"is_default"`
}

func (dto SaveCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required().Positive(errors.ErrCodeInvalidID)
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("type", dto.Type).Required().EntryType()
	v.Field("color", dto.Color).MaxLength(7).HexColor()
	return v.Validate()
}

type CategoryResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Name        string           `json:"name"`
	Type        ledger.EntryType `json:"type"`
	Color       *string          `json:"color,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsDefault   bool             `json:"is_default"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Count      int                `json:"count"`
}
