package invitationerrors

import (
	"go-hrm/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvitationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invitation not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"User with this email already exists",
		http.StatusConflict,
	)
	ErrPendingInvitationExists = apperror.New(
		apperror.CodeConflict,
		"Pending invitation already exists for this email",
		http.StatusConflict,
	)
	ErrInvitationNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending invitations can be revoked",
		http.StatusConflict,
	)
	ErrInvalidInvitationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invitation ID",
		http.StatusBadRequest,
	)
)
