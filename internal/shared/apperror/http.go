package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP resolves any error returned by a service into the response envelope fields.
// Unknown errors are reported as INTERNAL_ERROR without leaking their text.
func ToHTTP(err error) HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		mapped := MapValidationError(err)
		return HTTPError{Status: mapped.HTTPStatus, Code: mapped.Code, Message: mapped.Message}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{Status: appErr.HTTPStatus, Code: appErr.Code, Message: appErr.Message}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
