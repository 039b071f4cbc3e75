package storage

import (
	"context"
	"io"
	"mime"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/wisata/backend/internal/config"
)

// MinioStore keeps assets in an object-storage bucket instead of the local
// filesystem. References keep the same public-prefix shape, so the rest of
// the system is indifferent to the backend; serving the prefix is then the
// job of a bucket policy or a fronting proxy.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore initializes the client and ensures the bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "failed to create bucket")
		}
	}

	return &MinioStore{
		client: client,
		bucket: cfg.MinioBucket,
		prefix: cfg.PublicUploadPrefix,
	}, nil
}

func (s *MinioStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext, err := imageExt(filename)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Size -1 streams with multipart upload; uploads here are small images.
	_, err = s.client.PutObject(ctx, s.bucket, name, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to store %s", name)
	}

	return path.Join(s.prefix, name), nil
}

func (s *MinioStore) Remove(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "failed to remove %s", name)
}
