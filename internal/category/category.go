package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
)

type Category struct {
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

// Apply overwrites the mutable fields from dto, keeping id and created_at.
func (c *Category) Apply(dto SaveCategoryDTO) {
	c.UserID = dto.UserID
	c.Name = dto.Name
	c.Type = dto.Type
	c.Color = dto.Color
	c.Description = dto.Description
	c.IsDefault = dto.IsDefault
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Type:        c.Type,
		Color:       c.Color,
		Description: c.Description,
		IsDefault:   c.IsDefault,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewCategory(dto SaveCategoryDTO) *Category {
	c := &Category{}
	c.Apply(dto)
	return c
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Type:        c.Type.String(),
		Color:       c.Color,
		Description: c.Description,
		IsDefault:   c.IsDefault,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Type:        ledger.EntryType(c.Type),
		Color:       c.Color,
		Description: c.Description,
		IsDefault:   c.IsDefault,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
