package invitation

import (
	"errors"

	invitationerrors "go-hrm/internal/invitation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invitationerrors.ErrInvitationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_invitations_pending_email":
			return invitationerrors.ErrPendingInvitationExists
		case "uq_users_email":
			return invitationerrors.ErrEmailAlreadyRegistered
		}
	}

	return err
}
