package invitation

type CreateInvitationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Role        string `json:"role" binding:"required,oneof=Employee HR Admin Management"`
	Department  string `json:"department" binding:"max=100"`
	Designation string `json:"designation" binding:"max=100"`
}

type CreateInvitationResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Link      string `json:"link"`
	ExpiresAt string `json:"expires_at"`
	Message   string `json:"message"`
}

type InvitationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Status      string `json:"status"`
	Expired     bool   `json:"expired"`
	ExpiresAt   string `json:"expires_at"`
	CreatedAt   string `json:"created_at"`
}
