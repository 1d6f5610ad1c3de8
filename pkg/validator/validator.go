package validator

import (
	"errors"
	"fmt"
	"strings"

	"coursematch.com/backend/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Messages maps a struct field name to the message reported when it fails.
type Messages map[string]string

// Check validates s and returns an invalid-input AppError carrying the
// message of the first failing field, in field declaration order.
func Check(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	first := validationErrors[0]
	if msg, ok := messages[first.Field()]; ok {
		return apperror.Invalid(msg)
	}
	return apperror.Invalid(getFieldErrorMessage(first))
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, getFieldName(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"FirstName":  "First Name",
		"LastName":   "Last Name",
		"Username":   "Username",
		"Password":   "Password",
		"Confirm":    "Confirmation",
		"FavClasses": "Favorite classes",
		"GPA":        "GPA",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
