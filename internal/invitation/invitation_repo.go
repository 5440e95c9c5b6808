package invitation

import (
	"context"
	"database/sql"
	"time"

	"go-hrm/internal/shared/txutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=invitation_repo.go -destination=mock/invitation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inv *Invitation) error
	FindAll(ctx context.Context) ([]Invitation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)
	HasPendingForEmail(ctx context.Context, email string) (bool, error)
	EmailRegistered(ctx context.Context, email string) (bool, error)
	// TransitionStatus moves an invitation out of from; it reports false when
	// the row was not in that status anymore.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return txutil.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, inv *Invitation) error {
	return r.conn(ctx).Create(inv).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Invitation, error) {
	var invs []Invitation
	err := r.conn(ctx).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	err := r.conn(ctx).First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error) {
	var inv Invitation
	err := r.conn(ctx).First(&inv, "token_hash = ?", tokenHash).Error
	return &inv, err
}

func (r *repository) HasPendingForEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Invitation{}).
		Where("email = ?", email).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmailRegistered(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("users").
		Where("LOWER(email) = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case StatusCompleted:
		updates["completed_at"] = at
	case StatusRevoked:
		updates["revoked_at"] = at
	}

	res := r.conn(ctx).
		Model(&Invitation{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}
