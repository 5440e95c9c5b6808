package onboarding

import "mime/multipart"

type VerifyTokenRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

type VerifyTokenResponse struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// CompleteOnboardingRequest is bound from a multipart form.
type CompleteOnboardingRequest struct {
	Token            string `form:"token" binding:"required"`
	Password         string `form:"password" binding:"required,max=72"`
	ConfirmPassword  string `form:"confirm_password" binding:"omitempty,eqfield=Password"`
	ContactNumber    string `form:"contact_number" binding:"required,max=30"`
	EmergencyContact string `form:"emergency_contact" binding:"omitempty,max=100"`
	DOB              string `form:"dob" binding:"required,datetime=2006-01-02"`
	CurrentAddress   string `form:"current_address" binding:"required,max=500"`
	PermanentAddress string `form:"permanent_address" binding:"required,max=500"`
	EducationDetails string `form:"education_details"`
	PrimarySkills    string `form:"primary_skills"`
	SecondarySkills  string `form:"secondary_skills"`

	PhotoFile   *multipart.FileHeader `form:"photo_file"`
	CVFile      *multipart.FileHeader `form:"cv_file"`
	IDProofFile *multipart.FileHeader `form:"id_proof_file"`
}

type CompleteOnboardingResponse struct {
	EmployeeCode     string `json:"employee_code"`
	EmploymentStatus string `json:"employment_status"`
	Message          string `json:"message"`
}

type PendingEmployeeResponse struct {
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	SubmittedAt  string `json:"submitted_at"`
}

type ApproveRequest struct {
	ReportingManager  string `json:"reporting_manager" form:"reporting_manager" binding:"required"`
	EmploymentType    string `json:"employment_type" form:"employment_type" binding:"required,oneof='Full Time' 'Part Time' 'Contractual' 'Internship'"`
	PFIncluded        string `json:"pf_included" form:"pf_included" binding:"required,oneof=Yes No"`
	MediclaimIncluded string `json:"mediclaim_included" form:"mediclaim_included" binding:"required,oneof=Yes No"`
	Notes             string `json:"notes" form:"notes" binding:"max=2000"`
}
