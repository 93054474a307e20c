package auth

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type UserLookup interface {
	GetByLogin(ctx context.Context, login string) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service is the main auth service with dependencies
type Service struct {
	users          UserLookup
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(users UserLookup, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns an access token
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if appErr := dto.Validate(); appErr != nil {
		return AuthTokens{}, appErr
	}

	u, err := s.users.GetByLogin(ctx, dto.Login)
	if err != nil {
		s.logger.Error("failed to look up user for login", "error", err)
		return AuthTokens{}, errors.NewInternalError("failed to authenticate", err)
	}
	if u == nil {
		s.logger.Warn("login rejected: unknown user")
		return AuthTokens{}, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected: wrong password", "user_id", u.ID)
		return AuthTokens{}, invalidCredentials()
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return AuthTokens{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Authorize validates the access token and confirms its user still exists.
func (s *Service) Authorize(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		if err == ErrTokenExpired {
			return nil, errors.NewUnauthorizedError("token expired", errors.ErrCodeTokenExpired)
		}
		return nil, errors.NewUnauthorizedError("invalid token", errors.ErrCodeInvalidToken)
	}

	exists, err := s.users.Exists(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to authorize", err)
	}
	if !exists {
		return nil, errors.NewUnauthorizedError("invalid token", errors.ErrCodeInvalidToken)
	}
	return claims, nil
}

func invalidCredentials() *errors.AppError {
	return errors.NewUnauthorizedError("invalid credentials", errors.ErrCodeInvalidCredentials)
}
