package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	Put(ctx context.Context, key string, doc Document) (string, error)
	Remove(ctx context.Context, key string) error
}

type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinioStore(client *minio.Client, bucket string, logger ...*zap.Logger) *MinioStore {
	l := zap.L().Named("storage.minio")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.minio")
	}
	return &MinioStore{client: client, bucket: bucket, logger: l}
}

// Put uploads the document and returns its object key.
func (s *MinioStore) Put(ctx context.Context, key string, doc Document) (string, error) {
	src, err := doc.File.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", doc.Kind, err)
	}
	defer src.Close()

	info, err := s.client.PutObject(ctx, s.bucket, key, src, doc.File.Size, minio.PutObjectOptions{
		ContentType: doc.ContentType,
	})
	if err != nil {
		s.logger.Error("put object failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	s.logger.Debug("object stored", zap.String("key", key), zap.Int64("size", info.Size))
	return key, nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
