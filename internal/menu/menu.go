package menu

import (
	"slices"

	"go-hrm/internal/domain"
)

// Item is one navigation entry. An empty Roles list makes it visible to every role.
type Item struct {
	Label     string   `json:"label"`
	AriaLabel string   `json:"aria_label"`
	Path      string   `json:"path"`
	Roles     []string `json:"-"`
}

var (
	peopleManagers = []string{domain.RoleAdmin, domain.RoleHR}
	directoryRoles = []string{domain.RoleAdmin, domain.RoleHR, domain.RoleManagement}
)

// DefaultItems returns a fresh copy of the navigation configuration.
func DefaultItems() []Item {
	return []Item{
		{Label: "Home", AriaLabel: "Dashboard", Path: "/dashboard"},
		{Label: "Directory", AriaLabel: "Employee Directory", Path: "/employee-directory", Roles: directoryRoles},
		{Label: "Attendance", AriaLabel: "Attendance & Leaves", Path: "/attendance"},
		{Label: "Add Employee", AriaLabel: "Add New Employee", Path: "/add-employee", Roles: peopleManagers},
		{Label: "Onboarding", AriaLabel: "Invitations & Approvals", Path: "/onboarding", Roles: peopleManagers},
		{Label: "Assets", AriaLabel: "Manage Assets", Path: "/manage-assets", Roles: peopleManagers},
		{Label: "Performance", AriaLabel: "Performance Management", Path: "/performance", Roles: domain.Roles},
		{Label: "Training", AriaLabel: "Training Management", Path: "/training", Roles: peopleManagers},
		{Label: "Admin Panel", AriaLabel: "System Administration", Path: "/admin", Roles: []string{domain.RoleAdmin}},
		{Label: "About Us", AriaLabel: "About & Guide", Path: "/about"},
		{Label: "Logout", AriaLabel: "Sign Out", Path: "/logout"},
	}
}

// VisibleItems filters items down to what role may see, keeping their order.
// An empty or unknown role sees nothing.
func VisibleItems(role string, items []Item) []Item {
	if !domain.IsValidRole(role) {
		return []Item{}
	}

	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if len(item.Roles) == 0 || slices.Contains(item.Roles, role) {
			visible = append(visible, item)
		}
	}
	return visible
}

// CanAccess reports whether path belongs to an item visible to role.
func CanAccess(role, path string, items []Item) bool {
	for _, item := range VisibleItems(role, items) {
		if item.Path == path {
			return true
		}
	}
	return false
}
