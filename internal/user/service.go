package user

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/smart-budget/internal"
	userDatamodel "github.com/frahmantamala/smart-budget/internal/core/datamodel/user"
	"github.com/frahmantamala/smart-budget/internal/database"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByLogin(ctx context.Context, login string) (*userDatamodel.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	DeleteCascade(ctx context.Context, id int64) error
}

type Service struct {
	repo       Repository
	tx         database.Transactor
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tx database.Transactor, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tx:         tx,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	row := ToDataModel(&User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
	})

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByUsernameOrEmail(ctx, dto.Username, dto.Email)
		if err != nil {
			return err
		}
		if taken {
			return errors.NewConflictError("username or email already registered", errors.ErrCodeDuplicateUser)
		}
		return s.repo.Create(ctx, row)
	})
	if err != nil {
		if _, ok := errors.IsAppError(err); ok {
			s.logger.Warn("user registration rejected", "username", dto.Username, "error", err)
			return nil, err
		}
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", row.ID, "username", row.Username)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, errors.UserNotFound(id)
	}
	return FromDataModel(row), nil
}

// GetByLogin looks a user up by username or email. It returns nil, nil when nobody matches.
func (s *Service) GetByLogin(ctx context.Context, login string) (*User, error) {
	row, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// Exists reports whether a user row with id is present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Delete removes the user together with every category and transaction it owns, in one unit
// of work: transactions first, then categories, then the user row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errors.UserNotFound(id)
		}
		return s.repo.DeleteCascade(ctx, id)
	})
	if err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return err
		}
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return errors.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
