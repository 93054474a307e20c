package cmd

import (
	"context"
	"fmt"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/category"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/database"
	"github.com/frahmantamala/smart-budget/internal/user"
	"github.com/frahmantamala/smart-budget/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@mail.com"
	demoPassword = "password123"
)

type seedCategory struct {
	Name  string
	Type  ledger.EntryType
	Color string
	Desc  string
}

var defaultCategories = []seedCategory{
	{"Salary", ledger.Income, "#2E7D32", "monthly salary"},
	{"Freelance", ledger.Income, "#43A047", "side projects and contracts"},
	{"Groceries", ledger.Expense, "#F9A825", "food and household supplies"},
	{"Rent", ledger.Expense, "#C62828", "housing"},
	{"Transport", ledger.Expense, "#1565C0", "fuel, transit and parking"},
	{"Entertainment", ledger.Expense, "#6A1B9A", "dining out, movies and hobbies"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and a default set of categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

		store, err := database.Open(cfg.Database, lg)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return seed(ctx, newServices(store, cfg.Security, lg), clearData)
	},
}

// seed is idempotent: an existing demo user and existing categories are left as they are.
func seed(ctx context.Context, svc *Services, clear bool) error {
	lg := logger.From(ctx)

	existing, err := svc.Users.GetByLogin(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("look up demo user: %w", err)
	}

	if existing != nil && clear {
		if err := svc.Users.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("clear demo user: %w", err)
		}
		lg.Info("cleared demo user and their data", "user_id", existing.ID)
		existing = nil
	}

	demo := existing
	if demo == nil {
		demo, err = svc.Users.Register(ctx, user.CreateUserDTO{
			Username: demoUsername,
			Email:    demoEmail,
			Password: demoPassword,
		})
		if err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		lg.Info("seeded demo user", "user_id", demo.ID, "email", demoEmail)
	}

	for _, c := range defaultCategories {
		color, desc := c.Color, c.Desc
		_, err := svc.Categories.Save(ctx, category.SaveCategoryDTO{
			UserID:      demo.ID,
			Name:        c.Name,
			Type:        c.Type,
			Color:       &color,
			Description: &desc,
			IsDefault:   true,
		})
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeConflict {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		lg.Info("seeded category", "name", c.Name, "type", c.Type)
	}

	return nil
}
