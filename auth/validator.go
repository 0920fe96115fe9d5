package auth

import (
	"chat-hub/errors"
	stderrors "errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// passwordTag requires an upper case letter, a lower case letter, a digit and a symbol.
const passwordTag = "password"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(passwordTag, func(fl validator.FieldLevel) bool {
		var upper, lower, digit, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsNumber(r):
				digit = true
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				special = true
			}
		}
		return upper && lower && digit && special
	})
	return v
}

type RegisterRequest struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=12,max=72,password"`
}

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func ValidateRegister(req RegisterRequest) error {
	return check(req)
}

func ValidateLogin(req LoginRequest) error {
	return check(req)
}

// check reports a weak password as ErrInvalidPassword and any other rule as ErrInvalidRequest.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == passwordTag {
				return errors.ErrInvalidPassword
			}
		}
	}
	return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
}
