package auth

import (
	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/common/validation"
)

// LoginDTO accepts either a username or an email in Login.
type LoginDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("login", d.Login).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
