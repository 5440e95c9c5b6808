package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-hrm/internal/auth"
	"go-hrm/internal/domain"
	employeeerrors "go-hrm/internal/employee/errors"
	"go-hrm/internal/events"
	"go-hrm/internal/messaging/kafka"
	"go-hrm/internal/metrics"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ManagersCacheKey = "employees:managers"
	managersCacheTTL = time.Hour
)

// InvalidateManagersCache drops the cached reporting-manager options. Failures
// are logged only; the entry expires on its own.
func InvalidateManagersCache(ctx context.Context, rdb *redis.Client, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, ManagersCacheKey).Err(); err != nil {
		logger.Error("failed to invalidate managers cache",
			zap.Error(err),
			zap.String("key", ManagersCacheKey),
		)
	}
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]EmployeeResponse, int64, error)
	Managers(ctx context.Context) ([]ManagerOption, error)
	GetByCode(ctx context.Context, actor Actor, code string) (EmployeeDetailResponse, error)
	Offboard(ctx context.Context, actorID, code string, req OffboardRequest) (EmployeeResponse, error)
	UpdateContact(ctx context.Context, actor Actor, code string, req UpdateContactRequest) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  auth.Repository
	events *EventRecorder
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		events: NewEventRecorder(outboxRepo, logger...),
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]EmployeeResponse, int64, error) {
	s.logger.Debug("list employees requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("q", filter.Query),
		zap.String("status", filter.Status),
	)

	if filter.Status == domain.StatusPendingApproval {
		return []EmployeeResponse{}, 0, nil
	}

	empls, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, 0, MapRepositoryError(err)
	}

	return mapToListResponse(empls), total, nil
}

func (s *service) Managers(ctx context.Context) ([]ManagerOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ManagersCacheKey).Result(); err == nil {
			var resp []ManagerOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ManagersCacheKey, func() (any, error) {
		empls, err := s.repo.FindManagers(ctx)
		if err != nil {
			return nil, MapRepositoryError(err)
		}

		resp := make([]ManagerOption, len(empls))
		for i, e := range empls {
			resp[i] = ManagerOption{
				EmployeeCode: e.EmployeeCode,
				Name:         e.Name,
				Role:         e.Role,
				Designation:  e.Designation,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, ManagersCacheKey, jsonData, managersCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("list managers failed", zap.Error(err))
		return nil, err
	}

	return v.([]ManagerOption), nil
}

func (s *service) GetByCode(ctx context.Context, actor Actor, code string) (EmployeeDetailResponse, error) {
	s.logger.Debug("get employee requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_code", code),
	)

	empl, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return EmployeeDetailResponse{}, MapRepositoryError(err)
	}

	if empl.EmploymentStatus == domain.StatusPendingApproval && !domain.CanManagePeople(actor.Role) {
		return EmployeeDetailResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	skills, err := s.repo.FindSkillsByCode(ctx, code)
	if err != nil {
		s.logger.Error("get employee skills failed", zap.String("employee_code", code), zap.Error(err))
		return EmployeeDetailResponse{}, MapRepositoryError(err)
	}

	resp := EmployeeDetailResponse{
		EmployeeResponse: mapToResponse(*empl),
		Skills:           make([]SkillResponse, len(skills)),
	}
	for i, sk := range skills {
		resp.Skills[i] = SkillResponse{
			PrimarySkills:   sk.PrimarySkills,
			SecondarySkills: sk.SecondarySkills,
			ResumePath:      sk.ResumePath,
		}
	}
	return resp, nil
}

func (s *service) Offboard(ctx context.Context, actorID, code string, req OffboardRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("offboard employee requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("employee_code", code),
		zap.String("exit_reason", req.ExitReason),
	)

	now := s.now()
	exitDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d := strings.TrimSpace(req.ExitDate); d != "" {
		parsed, err := time.Parse(domain.DateLayout, d)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidExitDate
		}
		exitDate = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("offboard employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByCode(ctx, code)
	if err != nil {
		return EmployeeResponse{}, MapRepositoryError(err)
	}
	if empl.EmploymentStatus != domain.StatusActive {
		s.logger.Warn("offboard employee not active",
			zap.String("employee_code", code),
			zap.String("employment_status", empl.EmploymentStatus),
		)
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotActive
	}

	ok, err := qtx.Offboard(ctx, code, exitDate, req.ExitReason, now.UTC())
	if err != nil {
		s.logger.Error("offboard employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotActive
	}

	if err := s.users.WithTx(tx).SetActiveByEmployeeCode(ctx, code, false); err != nil {
		s.logger.Error("offboard employee deactivate account failed", zap.String("employee_code", code), zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl.EmploymentStatus = domain.StatusExited
	empl.ExitDate = &exitDate
	empl.ExitReason = req.ExitReason

	ev := NewLifecycleEvent(events.EmployeeOffboarded, actorID, empl, now)
	ev.ExitDate = exitDate.Format(domain.DateLayout)
	ev.ExitReason = req.ExitReason
	if err := s.events.Record(ctx, tx, ev); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("offboard employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	InvalidateManagersCache(ctx, s.rdb, s.logger)
	metrics.RecordTransition(metrics.TransitionOffboarded)
	s.logger.Info("offboard employee success",
		zap.String("request_id", rid),
		zap.String("employee_code", code),
		zap.String("exit_date", ev.ExitDate),
	)

	return mapToResponse(*empl), nil
}

func (s *service) UpdateContact(ctx context.Context, actor Actor, code string, req UpdateContactRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update contact requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("employee_code", code),
	)

	if !domain.CanManagePeople(actor.Role) && (actor.EmployeeCode == "" || actor.EmployeeCode != code) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}
	if req.IsEmpty() {
		return EmployeeResponse{}, employeeerrors.ErrEmptyContactUpdate
	}

	empl, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return EmployeeResponse{}, MapRepositoryError(err)
	}
	if empl.EmploymentStatus == domain.StatusExited {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeExited
	}

	update := ContactUpdate{
		ContactNumber:    trimmed(req.ContactNumber),
		EmergencyContact: trimmed(req.EmergencyContact),
		CurrentAddress:   trimmed(req.CurrentAddress),
		PermanentAddress: trimmed(req.PermanentAddress),
	}
	ok, err := s.repo.UpdateContact(ctx, code, update, s.now().UTC())
	if err != nil {
		s.logger.Error("update contact persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeExited
	}

	applyContact(empl, update)
	s.logger.Info("update contact success", zap.String("request_id", rid), zap.String("employee_code", code))
	return mapToResponse(*empl), nil
}

func applyContact(empl *Employee, u ContactUpdate) {
	if u.ContactNumber != nil {
		empl.ContactNumber = *u.ContactNumber
	}
	if u.EmergencyContact != nil {
		empl.EmergencyContact = *u.EmergencyContact
	}
	if u.CurrentAddress != nil {
		empl.CurrentAddress = *u.CurrentAddress
	}
	if u.PermanentAddress != nil {
		empl.PermanentAddress = *u.PermanentAddress
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func MapToResponse(empl Employee) EmployeeResponse {
	return mapToResponse(empl)
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                empl.ID.String(),
		EmployeeCode:      empl.EmployeeCode,
		Name:              empl.Name,
		Email:             empl.Email,
		Role:              empl.Role,
		Department:        empl.Department,
		Designation:       empl.Designation,
		EmploymentStatus:  empl.EmploymentStatus,
		DOJ:               formatDate(empl.DOJ),
		DOB:               formatDate(empl.DOB),
		ContactNumber:     empl.ContactNumber,
		EmergencyContact:  empl.EmergencyContact,
		CurrentAddress:    empl.CurrentAddress,
		PermanentAddress:  empl.PermanentAddress,
		EducationDetails:  empl.EducationDetails,
		PhotoPath:         empl.PhotoPath,
		ResumePath:        empl.ResumePath,
		IDProofPath:       empl.IDProofPath,
		ReportingManager:  empl.ReportingManager,
		EmploymentType:    empl.EmploymentType,
		PFIncluded:        empl.PFIncluded,
		MediclaimIncluded: empl.MediclaimIncluded,
		Notes:             empl.Notes,
		ApprovedAt:        formatTimestamp(empl.ApprovedAt),
		ExitDate:          formatDate(empl.ExitDate),
		ExitReason:        empl.ExitReason,
		SubmittedAt:       formatTimestamp(&empl.CreatedAt),
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
