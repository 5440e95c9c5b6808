package rbac

import "go-hrm/internal/domain"

type RoleInheritanceRow struct {
	Role   string
	Parent string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRoleInheritance() ([]RoleInheritanceRow, error)
	GetRolePermissions() ([]RolePermissionRow, error)
}

// staticRepository serves the built-in role policy. Admin inherits HR and
// every staff role inherits Employee.
type staticRepository struct{}

func NewStaticRepository() Repository {
	return staticRepository{}
}

func (staticRepository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	return []RoleInheritanceRow{
		{Role: domain.RoleAdmin, Parent: domain.RoleHR},
		{Role: domain.RoleHR, Parent: domain.RoleEmployee},
		{Role: domain.RoleManagement, Parent: domain.RoleEmployee},
	}, nil
}

func (staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{Role: domain.RoleEmployee, Resource: "menu", Action: "read"},
		{Role: domain.RoleEmployee, Resource: "employee", Action: "read"},
		{Role: domain.RoleEmployee, Resource: "employee", Action: "update_contact"},

		{Role: domain.RoleHR, Resource: "invitation", Action: "create"},
		{Role: domain.RoleHR, Resource: "invitation", Action: "read"},
		{Role: domain.RoleHR, Resource: "invitation", Action: "revoke"},
		{Role: domain.RoleHR, Resource: "approval", Action: "read"},
		{Role: domain.RoleHR, Resource: "approval", Action: "approve"},
		{Role: domain.RoleHR, Resource: "employee", Action: "offboard"},

		{Role: domain.RoleAdmin, Resource: "admin", Action: "read"},
	}, nil
}
