package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-hrm/internal/auth/errors"
	"go-hrm/internal/auth/token"
	"go-hrm/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo      Repository
	secret    string
	accessTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, secret string, accessTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &service{
		repo:      repo,
		secret:    secret,
		accessTTL: accessTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
			return LoginResponse{}, err
		}
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("request_id", rid), zap.String("user_id", user.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login inactive account", zap.String("request_id", rid), zap.String("user_id", user.ID.String()))
		return LoginResponse{}, autherrors.ErrAccountInactive
	}

	resp := mapToResponse(user)
	signed, expiresAt, err := token.Issue(s.secret, token.Claims{
		UserID:       resp.ID,
		EmployeeCode: resp.EmployeeCode,
		Role:         resp.Role,
	}, s.accessTTL, s.now())
	if err != nil {
		s.logger.Error("login sign token failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed.WithCause(err)
	}

	s.logger.Info("login success", zap.String("request_id", rid), zap.String("user_id", resp.ID), zap.String("role", resp.Role))
	return LoginResponse{
		User:        resp,
		AccessToken: signed,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, autherrors.ErrAccountInactive
	}

	return mapToResponse(u), nil
}

func mapToResponse(u *User) AuthResponse {
	resp := AuthResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.EmployeeCode != nil {
		resp.EmployeeCode = *u.EmployeeCode
	}
	return resp
}

// HashPassword is shared by onboarding completion and admin bootstrap.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", autherrors.ErrPasswordTooLong
		}
		return "", err
	}
	return string(hashed), nil
}
