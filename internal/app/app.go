package app

import (
	"context"
	"fmt"

	"go-hrm/internal/config"
	"go-hrm/internal/shared/connection"
	"go-hrm/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	minioClient, err := connection.ConnectMinio(context.Background(), cfg.Storage)
	if err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, fmt.Errorf("object storage: %w", err)
	}

	deps := &dependencies{
		cfg:    cfg,
		db:     sqlDB,
		gormDB: gormDB,
		rdb:    rdb,
		store:  storage.NewMinioStore(minioClient, cfg.Storage.Bucket, logger),
		logger: logger,
	}
	if err := registerModules(router, deps); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
		if err := sqlDB.Close(); err != nil {
			logger.Warn("close database failed", zap.Error(err))
		}
	}
	return cleanup, nil
}
