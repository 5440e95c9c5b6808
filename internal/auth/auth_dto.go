package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

type LoginResponse struct {
	User        AuthResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
}

// BootstrapAdminRequest seeds the first Admin account from the CLI.
type BootstrapAdminRequest struct {
	Name         string
	Email        string
	Password     string
	EmployeeCode string
}
