package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ ImageStore = (*MinioStore)(nil)

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: PublicBaseURL(client.EndpointURL().String(), bucket),
	}
}

// PublicBaseURL construit le préfixe des URLs publiques du bucket
func PublicBaseURL(endpointURL, bucket string) string {
	return strings.TrimRight(endpointURL, "/") + "/" + bucket
}

// EnsureBucket crée le bucket au démarrage s'il n'existe pas
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if exists {
		zap.L().Info("🪣 Bucket MinIO déjà présent", zap.String("bucket", s.bucket))
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	zap.L().Info("🪣 Bucket créé", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinioStore) Upload(ctx context.Context, productID primitive.ObjectID, filename, contentType string, r io.Reader, size int64) (string, error) {
	name := ObjectName(productID, filename, contentType)
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio upload: %w", err)
	}
	return s.baseURL + "/" + name, nil
}
