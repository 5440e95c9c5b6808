package domain

// EnforceRequest is the input every access check is decided on.
type EnforceRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
