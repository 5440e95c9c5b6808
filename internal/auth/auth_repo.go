package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hrm/internal/shared/txutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// SetActiveByEmployeeCode toggles the login of the account linked to an employee.
	SetActiveByEmployeeCode(ctx context.Context, employeeCode string, active bool) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return txutil.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.conn(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.conn(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	return &user, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.conn(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

func (r *repository) SetActiveByEmployeeCode(ctx context.Context, employeeCode string, active bool) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("employee_code = ?", employeeCode).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		}).Error
}
