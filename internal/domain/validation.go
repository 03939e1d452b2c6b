package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// messages maps "<StructField>.<tag>" to the message reported to clients.
var messages = map[string]string{
	"Name.required":        "Please add a name",
	"Name.max":             "Name cannot be more than 50 characters",
	"Email.required":       "Please add an email",
	"Email.email":          "Please add a valid email",
	"Password.required":    "Please add a password",
	"Password.min":         "Password must be at least 6 characters",
	"Password.max":         "Password cannot be more than 72 characters",
	"Title.required":       "Please add a title",
	"Title.max":            "Title cannot be more than 100 characters",
	"Description.required": "Please add a description",
}

// validateStruct runs the tag validator and converts the first failure into
// a ValidationError. Fields are checked in declaration order.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	msg, ok := messages[fe.StructField()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", lowerFirst(fe.StructField()))
	}
	return NewValidationError(lowerFirst(fe.StructField()), msg, ErrValidation)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
