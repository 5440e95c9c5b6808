package employee

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hrm/internal/domain"
	"go-hrm/internal/shared/txutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval holds what the approver decided for a pending employee.
type Approval struct {
	ReportingManager  string
	EmploymentType    string
	PFIncluded        string
	MediclaimIncluded string
	Notes             string
	ApprovedBy        *uuid.UUID
	ApprovedAt        time.Time
}

type ContactUpdate struct {
	ContactNumber    *string
	EmergencyContact *string
	CurrentAddress   *string
	PermanentAddress *string
}

var sortColumns = map[string]string{
	"name":          "name",
	"employee_code": "employee_code",
	"department":    "department",
	"designation":   "designation",
	"doj":           "doj",
	"created_at":    "created_at",
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	CreateSkill(ctx context.Context, skill *Skill) error
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindSkillsByCode(ctx context.Context, code string) ([]Skill, error)
	// List never returns PendingApproval employees.
	List(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	FindPendingApproval(ctx context.Context) ([]Employee, error)
	FindManagers(ctx context.Context) ([]Employee, error)
	FindActiveManagerByName(ctx context.Context, name string) (*Employee, error)
	// Approve, Offboard and UpdateContact report false when no row matched
	// the expected status.
	Approve(ctx context.Context, code string, approval Approval) (bool, error)
	Offboard(ctx context.Context, code string, exitDate time.Time, reason string, at time.Time) (bool, error)
	UpdateContact(ctx context.Context, code string, update ContactUpdate, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return txutil.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) CreateSkill(ctx context.Context, skill *Skill) error {
	return r.conn(ctx).Create(skill).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "employee_code = ?", code).Error
	return &empl, err
}

func (r *repository) FindSkillsByCode(ctx context.Context, code string) ([]Skill, error) {
	var skills []Skill
	err := r.conn(ctx).
		Where("employee_code = ?", code).
		Order("created_at ASC").
		Find(&skills).Error
	return skills, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Employee, int64, error) {
	q := r.conn(ctx).
		Model(&Employee{}).
		Where("employment_status <> ?", domain.StatusPendingApproval)

	if filter.Status != "" {
		q = q.Where("employment_status = ?", filter.Status)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_code) LIKE ? OR LOWER(department) LIKE ? OR LOWER(designation) LIKE ?",
			like, like, like, like, like,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	dir := "ASC"
	if strings.EqualFold(filter.SortDir, "desc") {
		dir = "DESC"
	}

	var empls []Employee
	err := q.
		Order(column + " " + dir).
		Order("employee_code ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&empls).Error
	return empls, total, err
}

func (r *repository) FindPendingApproval(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Where("employment_status = ?", domain.StatusPendingApproval).
		Order("created_at ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindManagers(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "employee_code", "name", "role", "designation").
		Where("employment_status = ?", domain.StatusActive).
		Where("role IN ?", domain.ManagerRoles).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindActiveManagerByName(ctx context.Context, name string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Where("name = ?", name).
		Where("employment_status = ?", domain.StatusActive).
		Where("role IN ?", domain.ManagerRoles).
		First(&empl).Error
	return &empl, err
}

func (r *repository) Approve(ctx context.Context, code string, approval Approval) (bool, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("employee_code = ?", code).
		Where("employment_status = ?", domain.StatusPendingApproval).
		Updates(map[string]any{
			"employment_status":  domain.StatusActive,
			"reporting_manager":  approval.ReportingManager,
			"employment_type":    approval.EmploymentType,
			"pf_included":        approval.PFIncluded,
			"mediclaim_included": approval.MediclaimIncluded,
			"notes":              approval.Notes,
			"approved_by":        approval.ApprovedBy,
			"approved_at":        approval.ApprovedAt,
			"updated_at":         approval.ApprovedAt,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Offboard(ctx context.Context, code string, exitDate time.Time, reason string, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("employee_code = ?", code).
		Where("employment_status = ?", domain.StatusActive).
		Updates(map[string]any{
			"employment_status": domain.StatusExited,
			"exit_date":         exitDate,
			"exit_reason":       reason,
			"updated_at":        at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) UpdateContact(ctx context.Context, code string, update ContactUpdate, at time.Time) (bool, error) {
	updates := map[string]any{"updated_at": at}
	if update.ContactNumber != nil {
		updates["contact_number"] = *update.ContactNumber
	}
	if update.EmergencyContact != nil {
		updates["emergency_contact"] = *update.EmergencyContact
	}
	if update.CurrentAddress != nil {
		updates["current_address"] = *update.CurrentAddress
	}
	if update.PermanentAddress != nil {
		updates["permanent_address"] = *update.PermanentAddress
	}

	res := r.conn(ctx).
		Model(&Employee{}).
		Where("employee_code = ?", code).
		Where("employment_status <> ?", domain.StatusExited).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}
