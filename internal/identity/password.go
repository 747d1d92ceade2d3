package identity

import (
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrWeakPassword     = errors.New("password must be at least 6 characters and contain an upper case letter, a lower case letter and a digit")
	ErrPasswordMismatch = errors.New("password and confirmation must match")
	ErrInvalidEmail     = errors.New("a valid email address is required")
)

const minPasswordLength = 6

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// NewValidator returns a validator that knows the "password" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration of a static tag cannot fail
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return v
}

func StrongPassword(p string) bool {
	if len([]rune(p)) < minPasswordLength {
		return false
	}

	var lower, upper, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// validateSignUp maps validator failures to the messages shown on the form.
// The password policy is checked before the confirmation.
func validateSignUp(v *validator.Validate, in SignUpInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = true
	}

	switch {
	case failed["Email"]:
		return ErrInvalidEmail
	case failed["Password"]:
		return ErrWeakPassword
	default:
		return ErrPasswordMismatch
	}
}
