package rbac

import (
	"testing"

	"go-hrm/internal/domain"
	"go-hrm/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	svc, err := NewService(NewStaticRepository(), enforcer)
	assert.NoError(t, err)
	return svc
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{domain.RoleHR, "invitation", "create", true},
		{domain.RoleAdmin, "invitation", "create", true},
		{domain.RoleAdmin, "approval", "approve", true},
		{domain.RoleAdmin, "admin", "read", true},
		{domain.RoleHR, "admin", "read", false},
		{domain.RoleManagement, "invitation", "create", false},
		{domain.RoleManagement, "employee", "read", true},
		{domain.RoleEmployee, "employee", "offboard", false},
		{domain.RoleEmployee, "menu", "read", true},
		{"Guest", "menu", "read", false},
		{"", "employee", "read", false},
	}

	for _, tt := range tests {
		allowed, err := svc.Enforce(domain.EnforceRequest{Role: tt.role, Resource: tt.resource, Action: tt.action})
		assert.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s:%s", tt.role, tt.resource, tt.action)
	}
}

func TestRBACService_Permissions(t *testing.T) {
	svc := newTestService(t)

	t.Run("admin inherits hr and employee", func(t *testing.T) {
		perms, err := svc.Permissions(domain.RoleAdmin)
		assert.NoError(t, err)
		assert.Contains(t, perms, PermissionResponse{Resource: "admin", Action: "read"})
		assert.Contains(t, perms, PermissionResponse{Resource: "invitation", Action: "revoke"})
		assert.Contains(t, perms, PermissionResponse{Resource: "menu", Action: "read"})
	})

	t.Run("unknown role has none", func(t *testing.T) {
		perms, err := svc.Permissions("Intern")
		assert.NoError(t, err)
		assert.Empty(t, perms)
	})
}

func TestRBACService_LoadPolicyIsRepeatable(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.LoadPolicy())

	allowed, err := svc.Enforce(domain.EnforceRequest{Role: domain.RoleHR, Resource: "approval", Action: "read"})
	assert.NoError(t, err)
	assert.True(t, allowed)
}
