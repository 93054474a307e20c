package category

import "time"

type Category struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_categories_user_name"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_categories_user_name"`
	Type        string    `gorm:"column:type;size:10;not null"`
	Color       *string   `gorm:"column:color;size:7"`
	Description *string   `gorm:"column:description;type:text"`
	IsDefault   bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
