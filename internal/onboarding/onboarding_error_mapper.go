package onboarding

import (
	"errors"

	employeeerrors "go-hrm/internal/employee/errors"
	onboardingerrors "go-hrm/internal/onboarding/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_users_email", "uq_employee_email":
			return onboardingerrors.ErrAccountAlreadyExists
		case "uq_employee_code", "uq_users_employee_code":
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		}
	}

	return err
}
