// Package account implements the login, signup, password reset and logout
// flows. Forms are checked locally before anything is sent to the backend.
package account

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a form problem found before any network call. Message
// is shown inline next to the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) UserMessage() string { return e.Message }

const (
	msgEmailRequired    = "Email is required."
	msgEmailInvalid     = "Please enter a valid email address."
	msgPasswordRequired = "Password is required."
	msgFillRequired     = "Please fill in all required fields."
	msgPasswordShort    = "Password must be at least 8 characters."
	msgPasswordMismatch = "Passwords do not match."
	msgTermsRequired    = "Please agree to the Terms of Service."
)

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Upload is a file picked by the user, such as a photo of a student ID.
type Upload struct {
	Filename string
	Content  io.Reader
}

type SignupForm struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"eqfield=Password"`
	AgreedToTerms   bool   `validate:"accepted"`

	StudentID *Upload `validate:"-"`
}

type ResetForm struct {
	Email string `validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
	return v
}

func (f LoginForm) Validate() error {
	return check(f, func(fe validator.FieldError) string {
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "required" {
				return msgEmailRequired
			}
			return msgEmailInvalid
		default:
			return msgPasswordRequired
		}
	})
}

func (f SignupForm) Validate() error {
	err := validate.Struct(f)
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	// Missing fields are reported together before anything else.
	for _, fe := range ves {
		if fe.Tag() == "required" {
			return &ValidationError{Field: fe.Field(), Message: msgFillRequired}
		}
	}

	fe := ves[0]
	var msg string
	switch fe.Field() {
	case "Email":
		msg = msgEmailInvalid
	case "Password":
		msg = msgPasswordShort
	case "ConfirmPassword":
		msg = msgPasswordMismatch
	case "AgreedToTerms":
		msg = msgTermsRequired
	default:
		msg = msgFillRequired
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

func (f ResetForm) Validate() error {
	return check(f, func(validator.FieldError) string { return msgEmailRequired })
}

// check validates s and reports the first failing field, in declaration
// order, through message.
func check(s any, message func(validator.FieldError) string) error {
	err := validate.Struct(s)
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fe := ves[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}
