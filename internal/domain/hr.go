package domain

import "slices"

const (
	RoleEmployee   = "Employee"
	RoleHR         = "HR"
	RoleAdmin      = "Admin"
	RoleManagement = "Management"
)

const (
	StatusPendingApproval = "PendingApproval"
	StatusActive          = "Active"
	StatusExited          = "Exited"
)

const (
	Yes = "Yes"
	No  = "No"
)

const DateLayout = "2006-01-02"

var (
	Roles           = []string{RoleEmployee, RoleHR, RoleAdmin, RoleManagement}
	EmploymentTypes = []string{"Full Time", "Part Time", "Contractual", "Internship"}
	ExitReasons     = []string{"Resignation", "Termination", "Absconding", "Contract End", "Retirement", "Death"}

	// ManagerRoles are the roles an employee needs to be picked as a reporting manager.
	ManagerRoles = []string{RoleManagement, RoleAdmin}
)

func IsValidRole(role string) bool {
	return slices.Contains(Roles, role)
}

// CanManagePeople reports whether role owns employee state transitions.
func CanManagePeople(role string) bool {
	return role == RoleAdmin || role == RoleHR
}
