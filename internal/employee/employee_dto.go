package employee

type ListFilter struct {
	Query    string
	Status   string
	Role     string
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// Actor is the authenticated caller as seen by permission checks.
type Actor struct {
	UserID       string
	EmployeeCode string
	Role         string
}

type OffboardRequest struct {
	ExitDate   string `json:"exit_date" form:"exit_date" binding:"omitempty,datetime=2006-01-02"`
	ExitReason string `json:"exit_reason" form:"exit_reason" binding:"required,oneof='Resignation' 'Termination' 'Absconding' 'Contract End' 'Retirement' 'Death'"`
}

type UpdateContactRequest struct {
	ContactNumber    *string `json:"contact_number" binding:"omitempty,max=30"`
	EmergencyContact *string `json:"emergency_contact" binding:"omitempty,max=100"`
	CurrentAddress   *string `json:"current_address" binding:"omitempty,max=500"`
	PermanentAddress *string `json:"permanent_address" binding:"omitempty,max=500"`
}

func (r UpdateContactRequest) IsEmpty() bool {
	return r.ContactNumber == nil && r.EmergencyContact == nil && r.CurrentAddress == nil && r.PermanentAddress == nil
}

type EmployeeResponse struct {
	ID                string `json:"id"`
	EmployeeCode      string `json:"employee_code"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	Department        string `json:"department"`
	Designation       string `json:"designation"`
	EmploymentStatus  string `json:"employment_status"`
	DOJ               string `json:"doj,omitempty"`
	DOB               string `json:"dob,omitempty"`
	ContactNumber     string `json:"contact_number,omitempty"`
	EmergencyContact  string `json:"emergency_contact,omitempty"`
	CurrentAddress    string `json:"current_address,omitempty"`
	PermanentAddress  string `json:"permanent_address,omitempty"`
	EducationDetails  string `json:"education_details,omitempty"`
	PhotoPath         string `json:"photo_path,omitempty"`
	ResumePath        string `json:"resume_path,omitempty"`
	IDProofPath       string `json:"id_proof_path,omitempty"`
	ReportingManager  string `json:"reporting_manager,omitempty"`
	EmploymentType    string `json:"employment_type,omitempty"`
	PFIncluded        string `json:"pf_included,omitempty"`
	MediclaimIncluded string `json:"mediclaim_included,omitempty"`
	Notes             string `json:"notes,omitempty"`
	ApprovedAt        string `json:"approved_at,omitempty"`
	ExitDate          string `json:"exit_date,omitempty"`
	ExitReason        string `json:"exit_reason,omitempty"`
	SubmittedAt       string `json:"submitted_at"`
}

type SkillResponse struct {
	PrimarySkills   string `json:"primary_skills"`
	SecondarySkills string `json:"secondary_skills"`
	ResumePath      string `json:"resume_path,omitempty"`
}

type EmployeeDetailResponse struct {
	EmployeeResponse
	Skills []SkillResponse `json:"skills"`
}

type ManagerOption struct {
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Designation  string `json:"designation"`
}
