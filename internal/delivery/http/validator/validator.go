// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"github.com/go-playground/validator/v10"

	domainerrors "ratehub/internal/domain/errors"
)

// echoValidator wraps a validator instance so echo.Context.Validate works
// on any bound struct carrying `validate` tags.
type echoValidator struct {
	validate *validator.Validate
}

// New builds the validator used by the echo server.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures surface as the domain's
// validation error so the error middleware maps them to 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
