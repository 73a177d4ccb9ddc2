// Package storage keeps catalog assets such as cover images in an
// S3-compatible bucket, Cloudflare R2 by default.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/irsalhamdi/e-commerce-books/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("storage bucket is not configured")

type Bucket struct {
	log    logrus.FieldLogger
	client *minio.Client
	name   string
}

// Endpoint returns the configured endpoint, falling back to the R2 endpoint
// of the account.
func Endpoint(cfg config.Storage) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return fmt.Sprintf("%s.r2.cloudflarestorage.com", cfg.AccountID)
}

func New(log logrus.FieldLogger, cfg config.Storage) (*Bucket, error) {
	if cfg.Bucket == "" || (cfg.Endpoint == "" && cfg.AccountID == "") {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(Endpoint(cfg), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &Bucket{log: log, client: client, name: cfg.Bucket}, nil
}

// Upload stores the file at path under key.
func (b *Bucket) Upload(ctx context.Context, path string, key string) error {
	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(path))}

	info, err := b.client.FPutObject(ctx, b.name, key, path, opts)
	if err != nil {
		return fmt.Errorf("uploading %s as %s: %w", path, key, err)
	}

	b.log.WithFields(logrus.Fields{
		"bucket": b.name,
		"key":    key,
		"size":   info.Size,
	}).Info("object uploaded")

	return nil
}

// PresignedGetURL returns a temporary download link for key.
func (b *Bucket) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, bool) {
	u, err := b.client.PresignedGetObject(ctx, b.name, key, ttl, nil)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"bucket": b.name,
			"key":    key,
			"err":    err,
		}).Error("cannot presign object")
		return "", false
	}

	return u.String(), true
}
