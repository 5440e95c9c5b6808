package menu

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrm/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestVisibleItems(t *testing.T) {
	tests := []struct {
		name string
		role string
		want []string
	}{
		{
			name: "employee",
			role: domain.RoleEmployee,
			want: []string{"Home", "Attendance", "Performance", "About Us", "Logout"},
		},
		{
			name: "management",
			role: domain.RoleManagement,
			want: []string{"Home", "Directory", "Attendance", "Performance", "About Us", "Logout"},
		},
		{
			name: "hr",
			role: domain.RoleHR,
			want: []string{"Home", "Directory", "Attendance", "Add Employee", "Onboarding", "Assets", "Performance", "Training", "About Us", "Logout"},
		},
		{
			name: "admin",
			role: domain.RoleAdmin,
			want: []string{"Home", "Directory", "Attendance", "Add Employee", "Onboarding", "Assets", "Performance", "Training", "Admin Panel", "About Us", "Logout"},
		},
		{name: "empty role", role: "", want: []string{}},
		{name: "unknown role", role: "Contractor", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labels(VisibleItems(tt.role, DefaultItems())))
		})
	}
}

func TestVisibleItems_DoesNotMutateInput(t *testing.T) {
	items := DefaultItems()
	_ = VisibleItems(domain.RoleEmployee, items)

	assert.Len(t, items, 11)
}

func TestCanAccess(t *testing.T) {
	items := DefaultItems()

	assert.True(t, CanAccess(domain.RoleAdmin, "/admin", items))
	assert.False(t, CanAccess(domain.RoleHR, "/admin", items))
	assert.True(t, CanAccess(domain.RoleHR, "/onboarding", items))
	assert.False(t, CanAccess(domain.RoleEmployee, "/employee-directory", items))
	assert.False(t, CanAccess("", "/dashboard", items))
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/menu", func(c *gin.Context) {
		c.Set("role", domain.RoleEmployee)
		c.Next()
	}, NewHandler(DefaultItems()).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"/attendance"`)
	assert.NotContains(t, w.Body.String(), "Admin Panel")
	assert.NotContains(t, w.Body.String(), "roles")
}

func TestHandler_Access(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		role   string
		target string
		status int
	}{
		{"hr opens onboarding", domain.RoleHR, "/menu/access?path=/onboarding", http.StatusOK},
		{"hr blocked from admin panel", domain.RoleHR, "/menu/access?path=/admin", http.StatusForbidden},
		{"employee blocked from directory", domain.RoleEmployee, "/menu/access?path=/employee-directory", http.StatusForbidden},
		{"unknown role sees nothing", "Guest", "/menu/access?path=/dashboard", http.StatusForbidden},
		{"path is required", domain.RoleAdmin, "/menu/access", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/menu/access", func(c *gin.Context) {
				c.Set("role", tc.role)
				c.Next()
			}, NewHandler(DefaultItems()).Access)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"allowed":true`)
			}
		})
	}
}
