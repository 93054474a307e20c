package database

import (
	categoryDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the data models. SQLite databases use this in place of
// the goose migrations under db/migrations, which are written for PostgreSQL.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userDatamodel.User{},
		&categoryDatamodel.Category{},
		&transactionDatamodel.Transaction{},
	)
}
