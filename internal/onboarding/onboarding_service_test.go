package onboarding_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"go-hrm/internal/auth"
	"go-hrm/internal/domain"
	"go-hrm/internal/employee"
	employeeerrors "go-hrm/internal/employee/errors"
	"go-hrm/internal/events"
	"go-hrm/internal/invitation"
	"go-hrm/internal/onboarding"
	onboardingerrors "go-hrm/internal/onboarding/errors"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/counter"
	"go-hrm/internal/storage"

	authMock "go-hrm/internal/auth/mock"
	employeeMock "go-hrm/internal/employee/mock"
	invitationMock "go-hrm/internal/invitation/mock"
	"go-hrm/internal/messaging/kafka"
	kafkaMock "go-hrm/internal/messaging/kafka/mock"
	counterMock "go-hrm/internal/shared/counter/mock"
	storageMock "go-hrm/internal/storage/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfBytes = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

type serviceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     onboarding.Service
	invitations *invitationMock.MockRepository
	employees   *employeeMock.MockRepository
	users       *authMock.MockRepository
	counters    *counterMock.MockRepository
	store       *storageMock.MockStore
	outbox      *kafkaMock.MockOutboxRepository
	redismock   redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	deps := &serviceDeps{
		db:          db,
		sqlMock:     sqlMock,
		invitations: invitationMock.NewMockRepository(ctrl),
		employees:   employeeMock.NewMockRepository(ctrl),
		users:       authMock.NewMockRepository(ctrl),
		counters:    counterMock.NewMockRepository(ctrl),
		store:       storageMock.NewMockStore(ctrl),
		outbox:      kafkaMock.NewMockOutboxRepository(ctrl),
		redismock:   redisMock,
	}
	deps.service = onboarding.NewService(
		db,
		deps.invitations,
		deps.employees,
		deps.users,
		deps.counters,
		deps.store,
		deps.outbox,
		rdb,
		onboarding.Options{MaxUploadBytes: 1 << 20, BcryptCost: bcrypt.MinCost},
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, _ = part.Write(content)
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	assert.NoError(t, err)
	return form.File["file"][0]
}

func pendingInvitation() *invitation.Invitation {
	return &invitation.Invitation{
		ID:          uuid.New(),
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Role:        domain.RoleEmployee,
		Department:  "Engineering",
		Designation: "Developer",
		Status:      invitation.StatusPending,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
}

func completeRequest(token string) onboarding.CompleteOnboardingRequest {
	return onboarding.CompleteOnboardingRequest{
		Token:            token,
		Password:         "s3cret-pass",
		ConfirmPassword:  "s3cret-pass",
		ContactNumber:    "0812 000 111",
		DOB:              "1995-04-12",
		CurrentAddress:   "1 Main St",
		PermanentAddress: "1 Main St",
		PrimarySkills:    "Go",
		SecondarySkills:  "SQL",
	}
}

func TestOnboardingService_VerifyToken(t *testing.T) {
	t.Run("pending invitation", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()

		deps.invitations.EXPECT().FindByTokenHash(ctx, invitation.HashToken("tok")).Return(inv, nil)

		resp, err := deps.service.VerifyToken(ctx, "tok")

		assert.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, "Jane Doe", resp.Name)
		assert.Equal(t, "Engineering", resp.Department)
	})

	t.Run("unknown token", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(&invitation.Invitation{}, gorm.ErrRecordNotFound)

		_, err := deps.service.VerifyToken(ctx, "nope")

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidToken)
		assert.Equal(t, apperror.CodeInvalidToken, apperror.ToHTTP(err).Code)
	})

	t.Run("revoked invitation", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()
		inv.Status = invitation.StatusRevoked

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(inv, nil)

		_, err := deps.service.VerifyToken(ctx, "tok")

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidToken)
	})

	t.Run("expired invitation", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()
		inv.ExpiresAt = time.Now().Add(-time.Minute)

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(inv, nil)

		_, err := deps.service.VerifyToken(ctx, "tok")

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidToken)
	})

	t.Run("blank token skips lookup", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.VerifyToken(context.Background(), "  ")

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidToken)
	})
}

func TestOnboardingService_Complete(t *testing.T) {
	t.Run("creates pending employee with inactive account", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()
		req := completeRequest("tok")
		req.PhotoFile = fileHeader(t, "me.png", pngBytes)
		req.CVFile = fileHeader(t, "cv.pdf", pdfBytes)

		deps.invitations.EXPECT().FindByTokenHash(ctx, invitation.HashToken("tok")).Return(inv, nil)
		deps.counters.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(7), nil)
		deps.store.EXPECT().Put(ctx, "onboarding/EMP0007/photo.png", gomock.Any()).Return("onboarding/EMP0007/photo.png", nil)
		deps.store.EXPECT().Put(ctx, "onboarding/EMP0007/cv.pdf", gomock.Any()).Return("onboarding/EMP0007/cv.pdf", nil)

		expectTx(t, deps.sqlMock, true)
		deps.invitations.EXPECT().WithTx(gomock.Any()).Return(deps.invitations)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)

		// the user row references the employee row, so it must be inserted after it
		gomock.InOrder(
			deps.invitations.EXPECT().
				TransitionStatus(ctx, inv.ID, invitation.StatusPending, invitation.StatusCompleted, gomock.Any()).
				Return(true, nil),
			deps.employees.EXPECT().
				Create(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
					assert.Equal(t, "EMP0007", e.EmployeeCode)
					assert.Equal(t, domain.StatusPendingApproval, e.EmploymentStatus)
					assert.Equal(t, "Engineering", e.Department)
					assert.Equal(t, "1995-04-12", e.DOB.Format(domain.DateLayout))
					assert.Equal(t, "onboarding/EMP0007/photo.png", e.PhotoPath)
					assert.Equal(t, "onboarding/EMP0007/cv.pdf", e.ResumePath)
					assert.Empty(t, e.IDProofPath)
					return nil
				}),
			deps.employees.EXPECT().
				CreateSkill(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, s *employee.Skill) error {
					assert.Equal(t, "Go", s.PrimarySkills)
					assert.Equal(t, "SQL", s.SecondarySkills)
					return nil
				}),
			deps.users.EXPECT().
				Create(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, u *auth.User) error {
					assert.False(t, u.IsActive)
					assert.Equal(t, "EMP0007", *u.EmployeeCode)
					assert.Equal(t, domain.RoleEmployee, u.Role)
					assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
					return nil
				}),
			deps.outbox.EXPECT().
				Create(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
					var payload events.LifecycleEvent
					assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
					assert.Equal(t, events.EmployeeOnboarded, payload.EventType)
					assert.Equal(t, inv.ID.String(), payload.InvitationID)
					assert.Equal(t, "EMP0007", payload.EmployeeCode)
					assert.NotContains(t, string(ev.Payload), "tok")
					return nil
				}),
		)

		resp, err := deps.service.Complete(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "EMP0007", resp.EmployeeCode)
		assert.Equal(t, domain.StatusPendingApproval, resp.EmploymentStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("second completion fails and removes uploads", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()
		req := completeRequest("tok")
		req.IDProofFile = fileHeader(t, "id.pdf", pdfBytes)

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(inv, nil)
		deps.counters.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(8), nil)
		deps.store.EXPECT().Put(ctx, "onboarding/EMP0008/id_proof.pdf", gomock.Any()).Return("onboarding/EMP0008/id_proof.pdf", nil)

		expectTx(t, deps.sqlMock, false)
		deps.invitations.EXPECT().WithTx(gomock.Any()).Return(deps.invitations)
		deps.invitations.EXPECT().
			TransitionStatus(ctx, inv.ID, invitation.StatusPending, invitation.StatusCompleted, gomock.Any()).
			Return(false, nil)
		deps.store.EXPECT().Remove(gomock.Any(), "onboarding/EMP0008/id_proof.pdf").Return(nil)

		_, err := deps.service.Complete(ctx, req)

		assert.ErrorIs(t, err, onboardingerrors.ErrInvitationConsumed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("completed invitation is rejected before any write", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()
		inv.Status = invitation.StatusCompleted

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(inv, nil)

		_, err := deps.service.Complete(ctx, completeRequest("tok"))

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidToken)
	})

	t.Run("rejected document stops before code allocation", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		req := completeRequest("tok")
		req.PhotoFile = fileHeader(t, "me.png", pdfBytes)

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(pendingInvitation(), nil)

		_, err := deps.service.Complete(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, apperror.CodeValidation, apperror.ToHTTP(err).Code)
	})

	t.Run("duplicate account maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		inv := pendingInvitation()

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(inv, nil)
		deps.counters.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(9), nil)

		expectTx(t, deps.sqlMock, false)
		deps.invitations.EXPECT().WithTx(gomock.Any()).Return(deps.invitations)
		deps.invitations.EXPECT().TransitionStatus(ctx, inv.ID, gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.employees.EXPECT().CreateSkill(ctx, gomock.Any()).Return(nil)
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.users.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"})

		_, err := deps.service.Complete(ctx, completeRequest("tok"))

		assert.ErrorIs(t, err, onboardingerrors.ErrAccountAlreadyExists)
	})

	t.Run("upload failure removes earlier uploads", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		req := completeRequest("tok")
		req.PhotoFile = fileHeader(t, "me.png", pngBytes)
		req.CVFile = fileHeader(t, "cv.pdf", pdfBytes)

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(pendingInvitation(), nil)
		deps.counters.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(10), nil)
		deps.store.EXPECT().Put(ctx, "onboarding/EMP0010/photo.png", gomock.Any()).Return("onboarding/EMP0010/photo.png", nil)
		deps.store.EXPECT().Put(ctx, "onboarding/EMP0010/cv.pdf", gomock.Any()).Return("", errors.New("bucket unavailable"))
		deps.store.EXPECT().Remove(gomock.Any(), "onboarding/EMP0010/photo.png").Return(nil)

		_, err := deps.service.Complete(ctx, req)

		assert.Error(t, err)
	})

	t.Run("malformed dob", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		req := completeRequest("tok")
		req.DOB = "12/04/1995"

		deps.invitations.EXPECT().FindByTokenHash(ctx, gomock.Any()).Return(pendingInvitation(), nil)

		_, err := deps.service.Complete(ctx, req)

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidDOB)
	})
}

func TestOnboardingService_ListPending(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	submitted := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

	deps.employees.EXPECT().FindPendingApproval(ctx).Return([]employee.Employee{
		{EmployeeCode: "EMP0007", Name: "Jane Doe", Designation: "Developer", EmploymentStatus: domain.StatusPendingApproval, CreatedAt: submitted},
	}, nil)

	resp, err := deps.service.ListPending(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "2025-02-01T09:30:00Z", resp[0].SubmittedAt)
}

func TestOnboardingService_Approve(t *testing.T) {
	actorID := uuid.NewString()
	req := onboarding.ApproveRequest{
		ReportingManager:  "Sam Boss",
		EmploymentType:    "Full Time",
		PFIncluded:        domain.Yes,
		MediclaimIncluded: domain.No,
		Notes:             "welcome",
	}

	pending := func() *employee.Employee {
		return &employee.Employee{
			ID:               uuid.New(),
			EmployeeCode:     "EMP0007",
			Name:             "Jane Doe",
			Role:             domain.RoleEmployee,
			EmploymentStatus: domain.StatusPendingApproval,
		}
	}

	t.Run("activates employee and account", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.employees.EXPECT().FindActiveManagerByName(ctx, "Sam Boss").Return(&employee.Employee{Name: "Sam Boss"}, nil)
		expectTx(t, deps.sqlMock, true)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().FindByCode(ctx, "EMP0007").Return(pending(), nil)
		deps.employees.EXPECT().
			Approve(ctx, "EMP0007", gomock.Any()).
			DoAndReturn(func(ctx context.Context, code string, a employee.Approval) (bool, error) {
				assert.Equal(t, "Sam Boss", a.ReportingManager)
				assert.Equal(t, "Full Time", a.EmploymentType)
				assert.Equal(t, domain.Yes, a.PFIncluded)
				assert.Equal(t, domain.No, a.MediclaimIncluded)
				assert.Equal(t, actorID, a.ApprovedBy.String())
				return true, nil
			})
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.users.EXPECT().SetActiveByEmployeeCode(ctx, "EMP0007", true).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeActivated, ev.EventType)
				return nil
			})
		deps.redismock.ExpectDel(employee.ManagersCacheKey).SetVal(1)

		resp, err := deps.service.Approve(ctx, actorID, "EMP0007", req)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusActive, resp.EmploymentStatus)
		assert.Equal(t, "Sam Boss", resp.ReportingManager)
		assert.Equal(t, "Full Time", resp.EmploymentType)
		assert.Equal(t, domain.Yes, resp.PFIncluded)
		assert.Equal(t, domain.No, resp.MediclaimIncluded)
		assert.NotEmpty(t, resp.ApprovedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("unknown manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.employees.EXPECT().FindActiveManagerByName(ctx, "Sam Boss").Return(&employee.Employee{}, gorm.ErrRecordNotFound)

		_, err := deps.service.Approve(ctx, actorID, "EMP0007", req)

		assert.ErrorIs(t, err, onboardingerrors.ErrInvalidReportingManager)
	})

	t.Run("already active", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		active := pending()
		active.EmploymentStatus = domain.StatusActive

		deps.employees.EXPECT().FindActiveManagerByName(ctx, "Sam Boss").Return(&employee.Employee{}, nil)
		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().FindByCode(ctx, "EMP0007").Return(active, nil)

		_, err := deps.service.Approve(ctx, actorID, "EMP0007", req)

		assert.ErrorIs(t, err, onboardingerrors.ErrEmployeeNotPending)
		assert.Equal(t, apperror.CodeInvalidState, apperror.ToHTTP(err).Code)
	})

	t.Run("missing employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.employees.EXPECT().FindActiveManagerByName(ctx, "Sam Boss").Return(&employee.Employee{}, nil)
		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().FindByCode(ctx, "EMP0404").Return(&employee.Employee{}, gorm.ErrRecordNotFound)

		_, err := deps.service.Approve(ctx, actorID, "EMP0404", req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("lost race", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.employees.EXPECT().FindActiveManagerByName(ctx, "Sam Boss").Return(&employee.Employee{}, nil)
		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().FindByCode(ctx, "EMP0007").Return(pending(), nil)
		deps.employees.EXPECT().Approve(ctx, "EMP0007", gomock.Any()).Return(false, nil)

		_, err := deps.service.Approve(ctx, actorID, "EMP0007", req)

		assert.ErrorIs(t, err, onboardingerrors.ErrEmployeeNotPending)
	})
}
