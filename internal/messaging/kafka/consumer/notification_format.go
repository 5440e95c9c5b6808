package consumer

import (
	"fmt"

	"go-hrm/internal/domain"
	"go-hrm/internal/events"
	"go-hrm/internal/notify"
)

// FormatNotification renders the HR channel message for a lifecycle event.
func FormatNotification(ev events.LifecycleEvent) (notify.Message, bool) {
	fields := map[string]string{
		"name":  ev.Name,
		"email": ev.Email,
	}
	if ev.EmployeeCode != "" {
		fields["employee_code"] = ev.EmployeeCode
	}

	var text string
	switch ev.EventType {
	case events.InvitationCreated:
		text = fmt.Sprintf("Onboarding invitation issued to %s <%s> as %s", ev.Name, ev.Email, ev.Role)
		if ev.ExpiresAt != nil {
			text += ", valid until " + ev.ExpiresAt.Format(domain.DateLayout)
		}
		fields["role"] = ev.Role
	case events.InvitationRevoked:
		text = fmt.Sprintf("Onboarding invitation for %s <%s> was revoked", ev.Name, ev.Email)
	case events.EmployeeOnboarded:
		text = fmt.Sprintf("%s (%s) completed onboarding and is waiting for approval", ev.Name, ev.EmployeeCode)
		fields["designation"] = ev.Designation
		fields["department"] = ev.Department
	case events.EmployeeActivated:
		text = fmt.Sprintf("%s (%s) was approved and is now active", ev.Name, ev.EmployeeCode)
	case events.EmployeeOffboarded:
		text = fmt.Sprintf("%s (%s) exited on %s: %s", ev.Name, ev.EmployeeCode, ev.ExitDate, ev.ExitReason)
		fields["exit_date"] = ev.ExitDate
		fields["exit_reason"] = ev.ExitReason
	default:
		return notify.Message{}, false
	}

	return notify.Message{Text: text, EventType: ev.EventType, Fields: fields}, true
}
