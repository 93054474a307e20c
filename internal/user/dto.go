package user

import (
	"net/mail"
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
)

// CreateUserDTO is the payload for POST /users.
type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().MaxLength(255).Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return errors.NewValidationFieldError("email", "email must be a valid address", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("password", dto.Password).Required().Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s != "" && len(s) < 8 {
			return errors.NewValidationFieldError("password", "password must be at least 8 characters", errors.ErrCodeValidationFailed)
		}
		// bcrypt ignores everything past 72 bytes
		if len(s) > 72 {
			return errors.NewValidationFieldError("password", "password must not exceed 72 bytes", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
