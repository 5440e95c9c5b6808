package employeeerrors

import (
	"go-hrm/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists",
		http.StatusConflict,
	)
	ErrEmployeeNotActive = apperror.New(
		apperror.CodeInvalidState,
		"Only active employees can be offboarded",
		http.StatusConflict,
	)
	ErrEmployeeExited = apperror.New(
		apperror.CodeInvalidState,
		"Exited employee records cannot be edited",
		http.StatusConflict,
	)
	ErrInvalidExitDate = apperror.New(
		apperror.CodeValidation,
		"Exit Date must be a date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrEmptyContactUpdate = apperror.New(
		apperror.CodeValidation,
		"At least one contact field is required",
		http.StatusBadRequest,
	)
)
