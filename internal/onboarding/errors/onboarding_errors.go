package onboardingerrors

import (
	"go-hrm/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidToken,
		"Invalid or expired invitation",
		http.StatusBadRequest,
	)
	ErrInvitationConsumed = apperror.New(
		apperror.CodeConflict,
		"Invitation has already been used",
		http.StatusConflict,
	)
	ErrEmployeeNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only employees pending approval can be approved",
		http.StatusConflict,
	)
	ErrInvalidReportingManager = apperror.New(
		apperror.CodeValidation,
		"Reporting Manager must be an active Management or Admin employee",
		http.StatusBadRequest,
	)
	ErrInvalidDOB = apperror.New(
		apperror.CodeValidation,
		"Date of Birth must be a date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrAccountAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An account with this email already exists",
		http.StatusConflict,
	)
)
