package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrm/internal/domain"
	"go-hrm/internal/employee"
	employeeerrors "go-hrm/internal/employee/errors"
	"go-hrm/internal/events"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/contextutil"

	authMock "go-hrm/internal/auth/mock"
	employeeMock "go-hrm/internal/employee/mock"
	"go-hrm/internal/messaging/kafka"
	kafkaMock "go-hrm/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	users     *authMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	users := authMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewService(db, repo, users, outboxRepo, rdb)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		users:     users,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
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

func activeEmployee(code string) *employee.Employee {
	doj := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &employee.Employee{
		ID:               uuid.New(),
		EmployeeCode:     code,
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Role:             domain.RoleEmployee,
		Designation:      "Developer",
		Department:       "Engineering",
		EmploymentStatus: domain.StatusActive,
		DOJ:              &doj,
		CreatedAt:        doj,
	}
}

func TestEmployeeService_List(t *testing.T) {
	t.Run("delegates filter", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		filter := employee.ListFilter{Query: "jane", Page: 1, PageSize: 10}

		deps.repo.EXPECT().List(ctx, filter).Return([]employee.Employee{*activeEmployee("EMP0001")}, int64(1), nil)

		resp, total, err := deps.service.List(ctx, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "EMP0001", resp[0].EmployeeCode)
		assert.Equal(t, "2024-03-01", resp[0].DOJ)
	})

	t.Run("pending status filter returns nothing", func(t *testing.T) {
		deps := setupServiceTest(t)

		resp, total, err := deps.service.List(context.Background(), employee.ListFilter{Status: domain.StatusPendingApproval, Page: 1, PageSize: 10})

		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, resp)
	})
}

func TestEmployeeService_Managers(t *testing.T) {
	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		managers := []employee.Employee{{EmployeeCode: "EMP0002", Name: "Sam Boss", Role: domain.RoleManagement, Designation: "CTO"}}
		want := []employee.ManagerOption{{EmployeeCode: "EMP0002", Name: "Sam Boss", Role: domain.RoleManagement, Designation: "CTO"}}
		payload, _ := json.Marshal(want)

		deps.redismock.ExpectGet(employee.ManagersCacheKey).RedisNil()
		deps.repo.EXPECT().FindManagers(ctx).Return(managers, nil)
		deps.redismock.ExpectSet(employee.ManagersCacheKey, payload, time.Hour).SetVal("OK")

		resp, err := deps.service.Managers(ctx)

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupServiceTest(t)

		cached, _ := json.Marshal([]employee.ManagerOption{{EmployeeCode: "EMP0009", Name: "Cached"}})
		deps.redismock.ExpectGet(employee.ManagersCacheKey).SetVal(string(cached))

		resp, err := deps.service.Managers(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "Cached", resp[0].Name)
	})
}

func TestEmployeeService_GetByCode(t *testing.T) {
	t.Run("includes skills", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(activeEmployee("EMP0001"), nil)
		deps.repo.EXPECT().FindSkillsByCode(ctx, "EMP0001").Return([]employee.Skill{{PrimarySkills: "Go", SecondarySkills: "SQL"}}, nil)

		resp, err := deps.service.GetByCode(ctx, employee.Actor{Role: domain.RoleEmployee}, "EMP0001")

		assert.NoError(t, err)
		assert.Equal(t, "Go", resp.Skills[0].PrimarySkills)
	})

	t.Run("pending hidden from employees", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		pending := activeEmployee("EMP0003")
		pending.EmploymentStatus = domain.StatusPendingApproval
		deps.repo.EXPECT().FindByCode(ctx, "EMP0003").Return(pending, nil)

		_, err := deps.service.GetByCode(ctx, employee.Actor{Role: domain.RoleManagement}, "EMP0003")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("pending visible to hr", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		pending := activeEmployee("EMP0003")
		pending.EmploymentStatus = domain.StatusPendingApproval
		deps.repo.EXPECT().FindByCode(ctx, "EMP0003").Return(pending, nil)
		deps.repo.EXPECT().FindSkillsByCode(ctx, "EMP0003").Return(nil, nil)

		resp, err := deps.service.GetByCode(ctx, employee.Actor{Role: domain.RoleHR}, "EMP0003")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPendingApproval, resp.EmploymentStatus)
	})

	t.Run("missing", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.repo.EXPECT().FindByCode(ctx, "EMP9999").Return(&employee.Employee{}, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByCode(ctx, employee.Actor{Role: domain.RoleAdmin}, "EMP9999")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Offboard(t *testing.T) {
	actorID := uuid.NewString()

	t.Run("success stores exit data and deactivates account", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "REQ-OFF")
		req := employee.OffboardRequest{ExitDate: "2025-01-31", ExitReason: "Resignation"}
		wantDate := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(activeEmployee("EMP0001"), nil)
		deps.repo.EXPECT().Offboard(ctx, "EMP0001", wantDate, "Resignation", gomock.Any()).Return(true, nil)
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.users.EXPECT().SetActiveByEmployeeCode(ctx, "EMP0001", false).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				var payload events.LifecycleEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, events.EmployeeOffboarded, payload.EventType)
				assert.Equal(t, "REQ-OFF", payload.RequestID)
				assert.Equal(t, "2025-01-31", payload.ExitDate)
				assert.Equal(t, "Resignation", payload.ExitReason)
				return nil
			})
		deps.redismock.ExpectDel(employee.ManagersCacheKey).SetVal(1)

		resp, err := deps.service.Offboard(ctx, actorID, "EMP0001", req)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusExited, resp.EmploymentStatus)
		assert.Equal(t, "2025-01-31", resp.ExitDate)
		assert.Equal(t, "Resignation", resp.ExitReason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("exit date defaults to today", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(activeEmployee("EMP0001"), nil)
		deps.repo.EXPECT().Offboard(ctx, "EMP0001", today, "Contract End", gomock.Any()).Return(true, nil)
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.users.EXPECT().SetActiveByEmployeeCode(ctx, "EMP0001", false).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(employee.ManagersCacheKey).SetVal(1)

		resp, err := deps.service.Offboard(ctx, actorID, "EMP0001", employee.OffboardRequest{ExitReason: "Contract End"})

		assert.NoError(t, err)
		assert.Equal(t, today.Format("2006-01-02"), resp.ExitDate)
	})

	t.Run("already exited", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		exited := activeEmployee("EMP0001")
		exited.EmploymentStatus = domain.StatusExited

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(exited, nil)

		_, err := deps.service.Offboard(ctx, actorID, "EMP0001", employee.OffboardRequest{ExitReason: "Termination"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotActive)
		assert.Equal(t, "INVALID_STATE", apperror.ToHTTP(err).Code)
	})

	t.Run("pending approval cannot be offboarded", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		pending := activeEmployee("EMP0004")
		pending.EmploymentStatus = domain.StatusPendingApproval

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0004").Return(pending, nil)

		_, err := deps.service.Offboard(ctx, actorID, "EMP0004", employee.OffboardRequest{ExitReason: "Termination"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotActive)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0404").Return(&employee.Employee{}, gorm.ErrRecordNotFound)

		_, err := deps.service.Offboard(ctx, actorID, "EMP0404", employee.OffboardRequest{ExitReason: "Termination"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("account deactivation failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(activeEmployee("EMP0001"), nil)
		deps.repo.EXPECT().Offboard(ctx, "EMP0001", gomock.Any(), "Retirement", gomock.Any()).Return(true, nil)
		deps.users.EXPECT().WithTx(gomock.Any()).Return(deps.users)
		deps.users.EXPECT().SetActiveByEmployeeCode(ctx, "EMP0001", false).Return(errors.New("db down"))

		_, err := deps.service.Offboard(ctx, actorID, "EMP0001", employee.OffboardRequest{ExitReason: "Retirement"})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_UpdateContact(t *testing.T) {
	phone := " 0812 "

	t.Run("self edit", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(activeEmployee("EMP0001"), nil)
		deps.repo.EXPECT().
			UpdateContact(ctx, "EMP0001", gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, code string, u employee.ContactUpdate, at time.Time) (bool, error) {
				assert.Equal(t, "0812", *u.ContactNumber)
				assert.Nil(t, u.CurrentAddress)
				return true, nil
			})

		resp, err := deps.service.UpdateContact(ctx,
			employee.Actor{Role: domain.RoleEmployee, EmployeeCode: "EMP0001"},
			"EMP0001",
			employee.UpdateContactRequest{ContactNumber: &phone},
		)

		assert.NoError(t, err)
		assert.Equal(t, "0812", resp.ContactNumber)
	})

	t.Run("other employee forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.UpdateContact(context.Background(),
			employee.Actor{Role: domain.RoleEmployee, EmployeeCode: "EMP0002"},
			"EMP0001",
			employee.UpdateContactRequest{ContactNumber: &phone},
		)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("exited record rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		exited := activeEmployee("EMP0001")
		exited.EmploymentStatus = domain.StatusExited
		deps.repo.EXPECT().FindByCode(ctx, "EMP0001").Return(exited, nil)

		_, err := deps.service.UpdateContact(ctx,
			employee.Actor{Role: domain.RoleHR},
			"EMP0001",
			employee.UpdateContactRequest{ContactNumber: &phone},
		)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeExited)
	})

	t.Run("empty update", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.UpdateContact(context.Background(), employee.Actor{Role: domain.RoleAdmin}, "EMP0001", employee.UpdateContactRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmptyContactUpdate)
	})
}
