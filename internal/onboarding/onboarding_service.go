package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"go-hrm/internal/auth"
	"go-hrm/internal/domain"
	"go-hrm/internal/employee"
	"go-hrm/internal/events"
	"go-hrm/internal/invitation"
	"go-hrm/internal/messaging/kafka"
	"go-hrm/internal/metrics"
	onboardingerrors "go-hrm/internal/onboarding/errors"
	"go-hrm/internal/shared/contextutil"
	"go-hrm/internal/shared/counter"
	"go-hrm/internal/storage"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const completedMessage = "Onboarding submitted. Your profile is pending HR approval."

type Options struct {
	MaxUploadBytes int64
	BcryptCost     int
}

//go:generate mockgen -source=onboarding_service.go -destination=mock/onboarding_service_mock.go -package=mock
type Service interface {
	VerifyToken(ctx context.Context, token string) (VerifyTokenResponse, error)
	Complete(ctx context.Context, req CompleteOnboardingRequest) (CompleteOnboardingResponse, error)
	ListPending(ctx context.Context) ([]PendingEmployeeResponse, error)
	Approve(ctx context.Context, actorID, code string, req ApproveRequest) (employee.EmployeeResponse, error)
}

type service struct {
	db          *sql.DB
	invitations invitation.Repository
	employees   employee.Repository
	users       auth.Repository
	counters    counter.Repository
	store       storage.Store
	events      *employee.EventRecorder
	rdb         *redis.Client
	opts        Options
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	invitations invitation.Repository,
	employees employee.Repository,
	users auth.Repository,
	counters counter.Repository,
	store storage.Store,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	return &service{
		db:          db,
		invitations: invitations,
		employees:   employees,
		users:       users,
		counters:    counters,
		store:       store,
		events:      employee.NewEventRecorder(outboxRepo, logger...),
		rdb:         rdb,
		opts:        opts,
		now:         time.Now,
		logger:      l,
	}
}

func (s *service) VerifyToken(ctx context.Context, token string) (VerifyTokenResponse, error) {
	inv, err := s.usableInvitation(ctx, token)
	if err != nil {
		return VerifyTokenResponse{}, err
	}

	return VerifyTokenResponse{
		Valid:       true,
		Name:        inv.Name,
		Email:       inv.Email,
		Role:        inv.Role,
		Department:  inv.Department,
		Designation: inv.Designation,
	}, nil
}

// usableInvitation resolves a raw token to a Pending, unexpired invitation.
func (s *service) usableInvitation(ctx context.Context, token string) (*invitation.Invitation, error) {
	if strings.TrimSpace(token) == "" {
		return nil, onboardingerrors.ErrInvalidToken
	}

	inv, err := s.invitations.FindByTokenHash(ctx, invitation.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("verify token unknown token", zap.String("request_id", contextutil.GetRequestID(ctx)))
			return nil, onboardingerrors.ErrInvalidToken
		}
		s.logger.Error("verify token lookup failed", zap.Error(err))
		return nil, err
	}

	if !inv.IsUsable(s.now()) {
		s.logger.Warn("verify token invitation not usable",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("status", inv.Status),
			zap.Time("expires_at", inv.ExpiresAt),
		)
		return nil, onboardingerrors.ErrInvalidToken
	}
	return inv, nil
}

func (s *service) Complete(ctx context.Context, req CompleteOnboardingRequest) (CompleteOnboardingResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	inv, err := s.usableInvitation(ctx, req.Token)
	if err != nil {
		return CompleteOnboardingResponse{}, err
	}
	s.logger.Debug("complete onboarding requested",
		zap.String("request_id", rid),
		zap.String("invitation_id", inv.ID.String()),
	)

	dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(req.DOB))
	if err != nil {
		return CompleteOnboardingResponse{}, onboardingerrors.ErrInvalidDOB
	}

	docs, err := s.validateDocuments(req)
	if err != nil {
		return CompleteOnboardingResponse{}, err
	}

	passwordHash, err := auth.HashPassword(req.Password, s.opts.BcryptCost)
	if err != nil {
		s.logger.Error("complete onboarding hash password failed", zap.Error(err))
		return CompleteOnboardingResponse{}, err
	}

	next, err := s.counters.GetNextValue(ctx, counter.EmployeeCode)
	if err != nil {
		s.logger.Error("complete onboarding allocate code failed", zap.String("request_id", rid), zap.Error(err))
		return CompleteOnboardingResponse{}, err
	}
	code := counter.FormatEmployeeCode(next)

	paths, uploaded, err := s.upload(ctx, code, docs)
	if err != nil {
		s.removeUploads(ctx, uploaded)
		return CompleteOnboardingResponse{}, err
	}

	if err := s.persistCompletion(ctx, inv, code, dob, passwordHash, paths, req); err != nil {
		s.removeUploads(ctx, uploaded)
		return CompleteOnboardingResponse{}, err
	}

	metrics.RecordTransition(metrics.TransitionCompleted)
	s.logger.Info("complete onboarding success",
		zap.String("request_id", rid),
		zap.String("invitation_id", inv.ID.String()),
		zap.String("employee_code", code),
	)

	return CompleteOnboardingResponse{
		EmployeeCode:     code,
		EmploymentStatus: domain.StatusPendingApproval,
		Message:          completedMessage,
	}, nil
}

func (s *service) validateDocuments(req CompleteOnboardingRequest) ([]storage.Document, error) {
	files := []struct {
		kind string
		fh   *multipart.FileHeader
	}{
		{storage.KindPhoto, req.PhotoFile},
		{storage.KindCV, req.CVFile},
		{storage.KindIDProof, req.IDProofFile},
	}

	var docs []storage.Document
	for _, f := range files {
		if f.fh == nil {
			continue
		}
		doc, err := storage.ValidateDocument(f.kind, f.fh, s.opts.MaxUploadBytes)
		if err != nil {
			s.logger.Warn("complete onboarding document rejected",
				zap.String("kind", f.kind),
				zap.String("filename", f.fh.Filename),
				zap.Error(err),
			)
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// upload returns stored keys by document kind plus every key written so far.
func (s *service) upload(ctx context.Context, code string, docs []storage.Document) (map[string]string, []string, error) {
	paths := make(map[string]string, len(docs))
	var uploaded []string
	for _, doc := range docs {
		key, err := s.store.Put(ctx, doc.ObjectKey(code), doc)
		if err != nil {
			s.logger.Error("complete onboarding upload failed",
				zap.String("employee_code", code),
				zap.String("kind", doc.Kind),
				zap.Error(err),
			)
			return nil, uploaded, err
		}
		uploaded = append(uploaded, key)
		paths[doc.Kind] = key
		metrics.RecordUpload(doc.Kind, doc.File.Size)
	}
	return paths, uploaded, nil
}

func (s *service) removeUploads(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Remove(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("remove orphaned upload failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *service) persistCompletion(
	ctx context.Context,
	inv *invitation.Invitation,
	code string,
	dob time.Time,
	passwordHash string,
	paths map[string]string,
	req CompleteOnboardingRequest,
) error {
	rid := contextutil.GetRequestID(ctx)
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("complete onboarding begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	ok, err := s.invitations.WithTx(tx).TransitionStatus(ctx, inv.ID, invitation.StatusPending, invitation.StatusCompleted, now)
	if err != nil {
		s.logger.Error("complete onboarding consume invitation failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if !ok {
		s.logger.Warn("complete onboarding invitation already consumed", zap.String("invitation_id", inv.ID.String()))
		return onboardingerrors.ErrInvitationConsumed
	}

	empl := &employee.Employee{
		ID:               uuid.New(),
		EmployeeCode:     code,
		Name:             inv.Name,
		Email:            inv.Email,
		Role:             inv.Role,
		Department:       inv.Department,
		Designation:      inv.Designation,
		EmploymentStatus: domain.StatusPendingApproval,
		DOJ:              &today,
		DOB:              &dob,
		ContactNumber:    strings.TrimSpace(req.ContactNumber),
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		CurrentAddress:   strings.TrimSpace(req.CurrentAddress),
		PermanentAddress: strings.TrimSpace(req.PermanentAddress),
		EducationDetails: strings.TrimSpace(req.EducationDetails),
		PhotoPath:        paths[storage.KindPhoto],
		ResumePath:       paths[storage.KindCV],
		IDProofPath:      paths[storage.KindIDProof],
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	qtx := s.employees.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("complete onboarding create employee failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	skill := &employee.Skill{
		ID:              uuid.New(),
		EmployeeCode:    code,
		PrimarySkills:   strings.TrimSpace(req.PrimarySkills),
		SecondarySkills: strings.TrimSpace(req.SecondarySkills),
		ResumePath:      paths[storage.KindCV],
		CreatedAt:       now,
	}
	if err := qtx.CreateSkill(ctx, skill); err != nil {
		s.logger.Error("complete onboarding create skill failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	// users.employee_code references employees, so the account goes in last.
	user := &auth.User{
		ID:           uuid.New(),
		EmployeeCode: &code,
		Name:         inv.Name,
		Email:        inv.Email,
		PasswordHash: passwordHash,
		Role:         inv.Role,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		s.logger.Error("complete onboarding create user failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	ev := employee.NewLifecycleEvent(events.EmployeeOnboarded, "", empl, now)
	ev.InvitationID = inv.ID.String()
	if err := s.events.Record(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("complete onboarding commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ListPending(ctx context.Context) ([]PendingEmployeeResponse, error) {
	empls, err := s.employees.FindPendingApproval(ctx)
	if err != nil {
		s.logger.Error("list pending approvals failed", zap.Error(err))
		return nil, err
	}

	resp := make([]PendingEmployeeResponse, len(empls))
	for i, e := range empls {
		resp[i] = PendingEmployeeResponse{
			EmployeeCode: e.EmployeeCode,
			Name:         e.Name,
			Email:        e.Email,
			Role:         e.Role,
			Department:   e.Department,
			Designation:  e.Designation,
			SubmittedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actorID, code string, req ApproveRequest) (employee.EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("approve employee requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("employee_code", code),
		zap.String("reporting_manager", req.ReportingManager),
	)

	managerName := strings.TrimSpace(req.ReportingManager)
	if _, err := s.employees.FindActiveManagerByName(ctx, managerName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employee.EmployeeResponse{}, onboardingerrors.ErrInvalidReportingManager
		}
		s.logger.Error("approve employee manager lookup failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.employees.WithTx(tx)
	empl, err := qtx.FindByCode(ctx, code)
	if err != nil {
		return employee.EmployeeResponse{}, mapRepositoryError(err)
	}
	if empl.EmploymentStatus != domain.StatusPendingApproval {
		s.logger.Warn("approve employee not pending",
			zap.String("employee_code", code),
			zap.String("employment_status", empl.EmploymentStatus),
		)
		return employee.EmployeeResponse{}, onboardingerrors.ErrEmployeeNotPending
	}

	now := s.now().UTC()
	approval := employee.Approval{
		ReportingManager:  managerName,
		EmploymentType:    req.EmploymentType,
		PFIncluded:        req.PFIncluded,
		MediclaimIncluded: req.MediclaimIncluded,
		Notes:             strings.TrimSpace(req.Notes),
		ApprovedBy:        uuidPtr(actorID),
		ApprovedAt:        now,
	}
	ok, err := qtx.Approve(ctx, code, approval)
	if err != nil {
		s.logger.Error("approve employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}
	if !ok {
		return employee.EmployeeResponse{}, onboardingerrors.ErrEmployeeNotPending
	}

	if err := s.users.WithTx(tx).SetActiveByEmployeeCode(ctx, code, true); err != nil {
		s.logger.Error("approve employee activate account failed", zap.String("employee_code", code), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}

	empl.EmploymentStatus = domain.StatusActive
	empl.ReportingManager = approval.ReportingManager
	empl.EmploymentType = approval.EmploymentType
	empl.PFIncluded = approval.PFIncluded
	empl.MediclaimIncluded = approval.MediclaimIncluded
	empl.Notes = approval.Notes
	empl.ApprovedBy = approval.ApprovedBy
	empl.ApprovedAt = &now

	if err := s.events.Record(ctx, tx, employee.NewLifecycleEvent(events.EmployeeActivated, actorID, empl, now)); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}

	employee.InvalidateManagersCache(ctx, s.rdb, s.logger)
	metrics.RecordTransition(metrics.TransitionApproved)
	s.logger.Info("approve employee success",
		zap.String("request_id", rid),
		zap.String("employee_code", code),
		zap.String("reporting_manager", approval.ReportingManager),
	)

	return employee.MapToResponse(*empl), nil
}

func uuidPtr(id string) *uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return &parsed
}
