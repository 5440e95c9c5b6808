package invitation

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hrm/internal/events"
	invitationerrors "go-hrm/internal/invitation/errors"
	"go-hrm/internal/messaging/kafka"
	"go-hrm/internal/metrics"
	"go-hrm/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	TTL      time.Duration
	LinkBase string
}

//go:generate mockgen -source=invitation_service.go -destination=mock/invitation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateInvitationRequest) (CreateInvitationResponse, error)
	List(ctx context.Context) ([]InvitationResponse, error)
	Revoke(ctx context.Context, actorID, id string) (InvitationResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("invitation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invitation.service")
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.LinkBase == "" {
		opts.LinkBase = "/onboard"
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		opts:   opts,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	actorID string,
	req CreateInvitationRequest,
) (CreateInvitationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	email := normalizeEmail(req.Email)
	s.logger.Debug("create invitation requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("email", email),
		zap.String("role", req.Role),
	)

	registered, err := s.repo.EmailRegistered(ctx, email)
	if err != nil {
		s.logger.Error("create invitation check registered email failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvitationResponse{}, err
	}
	if registered {
		s.logger.Warn("create invitation email already registered", zap.String("email", email))
		return CreateInvitationResponse{}, invitationerrors.ErrEmailAlreadyRegistered
	}

	pending, err := s.repo.HasPendingForEmail(ctx, email)
	if err != nil {
		s.logger.Error("create invitation check pending failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvitationResponse{}, err
	}
	if pending {
		s.logger.Warn("create invitation pending invitation exists", zap.String("email", email))
		return CreateInvitationResponse{}, invitationerrors.ErrPendingInvitationExists
	}

	token, err := NewToken()
	if err != nil {
		s.logger.Error("create invitation mint token failed", zap.Error(err))
		return CreateInvitationResponse{}, err
	}

	now := s.now().UTC()
	inv := &Invitation{
		ID:          uuid.New(),
		TokenHash:   HashToken(token),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Role:        req.Role,
		Department:  strings.TrimSpace(req.Department),
		Designation: strings.TrimSpace(req.Designation),
		Status:      StatusPending,
		InvitedBy:   uuidPtr(actorID),
		ExpiresAt:   now.Add(s.opts.TTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create invitation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvitationResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, inv); err != nil {
		s.logger.Error("create invitation persist failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvitationResponse{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.InvitationCreated, actorID, inv); err != nil {
		return CreateInvitationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create invitation commit failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvitationResponse{}, err
	}

	metrics.RecordTransition(metrics.TransitionInvited)
	s.logger.Info("create invitation success",
		zap.String("request_id", rid),
		zap.String("invitation_id", inv.ID.String()),
		zap.Time("expires_at", inv.ExpiresAt),
	)

	return CreateInvitationResponse{
		ID:        inv.ID.String(),
		Token:     token,
		Link:      BuildLink(s.opts.LinkBase, token),
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		Message:   "Invitation created for " + inv.Email,
	}, nil
}

func (s *service) List(ctx context.Context) ([]InvitationResponse, error) {
	s.logger.Debug("list invitations requested", zap.String("request_id", contextutil.GetRequestID(ctx)))

	invs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list invitations failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	now := s.now()
	resp := make([]InvitationResponse, len(invs))
	for i, inv := range invs {
		resp[i] = mapToResponse(inv, now)
	}
	return resp, nil
}

func (s *service) Revoke(ctx context.Context, actorID, id string) (InvitationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("revoke invitation requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("invitation_id", id),
	)

	invID, err := uuid.Parse(id)
	if err != nil {
		return InvitationResponse{}, invitationerrors.ErrInvalidInvitationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("revoke invitation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return InvitationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inv, err := qtx.FindByID(ctx, invID)
	if err != nil {
		s.logger.Warn("revoke invitation lookup failed", zap.String("invitation_id", id), zap.Error(err))
		return InvitationResponse{}, mapRepositoryError(err)
	}
	if inv.Status != StatusPending {
		return InvitationResponse{}, invitationerrors.ErrInvitationNotPending
	}

	now := s.now().UTC()
	ok, err := qtx.TransitionStatus(ctx, invID, StatusPending, StatusRevoked, now)
	if err != nil {
		s.logger.Error("revoke invitation persist failed", zap.String("request_id", rid), zap.Error(err))
		return InvitationResponse{}, err
	}
	if !ok {
		s.logger.Warn("revoke invitation lost race", zap.String("invitation_id", id))
		return InvitationResponse{}, invitationerrors.ErrInvitationNotPending
	}
	inv.Status = StatusRevoked
	inv.RevokedAt = &now

	if err := s.queueEvent(ctx, tx, events.InvitationRevoked, actorID, inv); err != nil {
		return InvitationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("revoke invitation commit failed", zap.String("request_id", rid), zap.Error(err))
		return InvitationResponse{}, err
	}

	metrics.RecordTransition(metrics.TransitionRevoked)
	s.logger.Info("revoke invitation success", zap.String("request_id", rid), zap.String("invitation_id", id))

	return mapToResponse(*inv, now), nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, eventType, actorID string, inv *Invitation) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.LifecycleEvent{
		EventType:    eventType,
		RequestID:    rid,
		ActorID:      actorID,
		InvitationID: inv.ID.String(),
		Name:         inv.Name,
		Email:        inv.Email,
		Role:         inv.Role,
		Department:   inv.Department,
		Designation:  inv.Designation,
		ExpiresAt:    &inv.ExpiresAt,
		OccurredAt:   s.now().UTC(),
	}

	row, err := kafka.NewOutboxEvent(rid, "invitation", inv.ID.String(), eventType, events.OnboardingLifecycleTopic, event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("invitation outbox persist failed",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(inv Invitation, now time.Time) InvitationResponse {
	return InvitationResponse{
		ID:          inv.ID.String(),
		Name:        inv.Name,
		Email:       inv.Email,
		Role:        inv.Role,
		Department:  inv.Department,
		Designation: inv.Designation,
		Status:      inv.Status,
		Expired:     inv.Status == StatusPending && inv.IsExpired(now),
		ExpiresAt:   inv.ExpiresAt.Format(time.RFC3339),
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
