package events

import "time"

// OnboardingLifecycleTopic carries every invitation and employee status transition.
const OnboardingLifecycleTopic = "hr.onboarding.lifecycle.v1"

const (
	InvitationCreated  = "invitation_created"
	InvitationRevoked  = "invitation_revoked"
	EmployeeOnboarded  = "employee_onboarded"
	EmployeeActivated  = "employee_activated"
	EmployeeOffboarded = "employee_offboarded"
)

// LifecycleEvent is the envelope published for each transition. Fields that do
// not apply to an event type are left empty.
type LifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	ActorID      string    `json:"actor_id,omitempty"`
	InvitationID string    `json:"invitation_id,omitempty"`
	EmployeeCode string    `json:"employee_code,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role,omitempty"`
	Department   string    `json:"department,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	ExitDate     string    `json:"exit_date,omitempty"`
	ExitReason   string    `json:"exit_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
