package invitation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusRevoked   = "Revoked"
)

type Invitation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenHash   string    `gorm:"column:token_hash"`
	Name        string
	Email       string
	Role        string
	Department  string
	Designation string
	Status      string
	InvitedBy   *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt   time.Time
	CompletedAt *time.Time
	RevokedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsUsable reports whether the invitation can still be used to complete onboarding.
func (i Invitation) IsUsable(now time.Time) bool {
	return i.Status == StatusPending && !i.IsExpired(now)
}
