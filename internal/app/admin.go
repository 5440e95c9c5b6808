package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrm/internal/auth"
	autherrors "go-hrm/internal/auth/errors"
	"go-hrm/internal/domain"
	"go-hrm/internal/employee"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminSeeder creates the first Admin account together with its Active employee record.
type AdminSeeder struct {
	db        *sql.DB
	employees employee.Repository
	users     auth.Repository
	counters  counter.Repository
	cost      int
	now       func() time.Time
	logger    *zap.Logger
}

func NewAdminSeeder(
	db *sql.DB,
	employees employee.Repository,
	users auth.Repository,
	counters counter.Repository,
	bcryptCost int,
	logger *zap.Logger,
) *AdminSeeder {
	return &AdminSeeder{
		db:        db,
		employees: employees,
		users:     users,
		counters:  counters,
		cost:      bcryptCost,
		now:       time.Now,
		logger:    logger.Named("app.admin_seeder"),
	}
}

// CreateAdmin returns the employee code of the new account.
func (s *AdminSeeder) CreateAdmin(ctx context.Context, req auth.BootstrapAdminRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", apperror.RequiredField("Name")
	}
	if email == "" {
		return "", apperror.RequiredField("Email")
	}
	if req.Password == "" {
		return "", apperror.RequiredField("Password")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return "", err
	}

	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		next, err := s.counters.GetNextValue(ctx, counter.EmployeeCode)
		if err != nil {
			return "", err
		}
		code = counter.FormatEmployeeCode(next)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	empl := &employee.Employee{
		ID:               uuid.New(),
		EmployeeCode:     code,
		Name:             name,
		Email:            email,
		Role:             domain.RoleAdmin,
		Designation:      "Administrator",
		EmploymentStatus: domain.StatusActive,
		DOJ:              &today,
		ApprovedAt:       &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.employees.WithTx(tx).Create(ctx, empl); err != nil {
		return "", employee.MapRepositoryError(err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		EmployeeCode: &code,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	s.logger.Info("admin account created", zap.String("email", email), zap.String("employee_code", code))
	return code, nil
}
