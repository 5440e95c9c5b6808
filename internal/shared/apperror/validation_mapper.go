package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// contact_number -> Contact Number
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first binding failure into a user-facing message.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		case "email":
			return New(CodeValidation, field+" must be a valid email address", http.StatusBadRequest)
		case "oneof":
			return New(CodeValidation, field+" must be one of: "+strings.ReplaceAll(e.Param(), "'", ""), http.StatusBadRequest)
		case "eqfield":
			return New(CodeValidation, field+" does not match "+formatFieldName(e.Param()), http.StatusBadRequest)
		case "datetime":
			return New(CodeValidation, field+" must be a date in YYYY-MM-DD format", http.StatusBadRequest)
		case "min":
			return New(CodeValidation, field+" must be at least "+e.Param()+" characters", http.StatusBadRequest)
		case "max":
			return New(CodeValidation, field+" must be at most "+e.Param()+" characters", http.StatusBadRequest)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
