package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeCode      string
	Name              string
	Email             string
	Role              string
	Department        string
	Designation       string
	EmploymentStatus  string
	DOJ               *time.Time `gorm:"column:doj;type:date"`
	DOB               *time.Time `gorm:"column:dob;type:date"`
	ContactNumber     string
	EmergencyContact  string
	CurrentAddress    string
	PermanentAddress  string
	EducationDetails  string
	PhotoPath         string
	ResumePath        string
	IDProofPath       string `gorm:"column:id_proof_path"`
	ReportingManager  string
	EmploymentType    string
	PFIncluded        string `gorm:"column:pf_included"`
	MediclaimIncluded string `gorm:"column:mediclaim_included"`
	Notes             string
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	ExitDate          *time.Time `gorm:"type:date"`
	ExitReason        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// Skill is captured once at onboarding and never rewritten by later transitions.
type Skill struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeCode    string
	PrimarySkills   string
	SecondarySkills string
	ResumePath      string
	CreatedAt       time.Time
}

func (Skill) TableName() string {
	return "employee_skills"
}
