package app

import (
	"database/sql"
	"net/http"

	"go-hrm/internal/auth"
	"go-hrm/internal/config"
	"go-hrm/internal/employee"
	"go-hrm/internal/invitation"
	"go-hrm/internal/menu"
	"go-hrm/internal/messaging/kafka"
	"go-hrm/internal/metrics"
	"go-hrm/internal/middleware"
	"go-hrm/internal/onboarding"
	"go-hrm/internal/rbac"
	rbacinfra "go-hrm/internal/rbac/infra"
	"go-hrm/internal/shared/counter"
	"go-hrm/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dependencies struct {
	cfg    *config.Config
	db     *sql.DB
	gormDB *gorm.DB
	rdb    *redis.Client
	store  storage.Store
	logger *zap.Logger
}

func registerModules(router *gin.Engine, d *dependencies) error {
	cfg := d.cfg

	// --- Repositories ---
	authRepo := auth.NewRepository(d.gormDB)
	counterRepo := counter.NewRepository(d.gormDB)
	employeeRepo := employee.NewRepository(d.gormDB)
	invitationRepo := invitation.NewRepository(d.gormDB)
	outboxRepo := kafka.NewOutboxRepository(d.db)

	// --- RBAC Core ---
	enforcer, err := rbacinfra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(rbac.NewStaticRepository(), enforcer, d.logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, d.logger)
	invitationService := invitation.NewService(d.db, invitationRepo, outboxRepo, invitation.Options{
		TTL:      cfg.Onboarding.InviteTTL,
		LinkBase: cfg.Onboarding.LinkBase,
	}, d.logger)
	onboardingService := onboarding.NewService(
		d.db,
		invitationRepo,
		employeeRepo,
		authRepo,
		counterRepo,
		d.store,
		outboxRepo,
		d.rdb,
		onboarding.Options{
			MaxUploadBytes: cfg.Onboarding.MaxUploadBytes,
			BcryptCost:     cfg.Auth.BcryptCost,
		},
		d.logger,
	)
	employeeService := employee.NewService(d.db, employeeRepo, authRepo, outboxRepo, d.rdb, d.logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure: cfg.App.IsProduction(),
		MaxAge: cfg.Auth.AccessTokenTTL,
	}, d.logger)
	invitationHandler := invitation.NewHandler(invitationService, d.logger)
	onboardingHandler := onboarding.NewHandler(onboardingService, cfg.Onboarding.MaxUploadBytes, d.logger)
	employeeHandler := employee.NewHandler(employeeService, d.logger)
	menuHandler := menu.NewHandler(menu.DefaultItems(), d.logger)
	rbacHandler := rbac.NewHandler(rbacService, d.logger)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	if cfg.Metrics.Enabled {
		metrics.Register()
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, metrics.Handler())
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	secret := cfg.Auth.JWTSecret
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, secret)
		invitation.RegisterRoutes(api, invitationHandler, rbacService, secret, d.logger)
		onboarding.RegisterRoutes(api, onboardingHandler, rbacService, d.rdb, secret, d.logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, secret, d.logger)
		menu.RegisterRoutes(api, menuHandler, rbacService, secret)
		rbac.RegisterRoutes(api, rbacHandler, secret)
	}

	return nil
}
