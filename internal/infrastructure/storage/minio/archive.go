package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// objectAPI is the slice of the minio client the archive uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// DraftArchive stores finished document drafts in S3-compatible object
// storage and hands back a presigned download link.
type DraftArchive struct {
	client        objectAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
	now           func() time.Time
}

// NewDraftArchive connects to the configured endpoint and makes sure the
// archive bucket exists.
func NewDraftArchive(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*DraftArchive, error) {
	if cfg.Bucket == "" {
		cfg.Bucket = "lexia-drafts"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "create object storage client")
	}

	a := &DraftArchive{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		logger:        logger,
		now:           time.Now,
	}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("draft archive connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return a, nil
}

func (a *DraftArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "check archive bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, fmt.Sprintf("create bucket %s", a.bucket))
	}
	a.logger.Info("created archive bucket", logging.String("bucket", a.bucket))
	return nil
}

// ArchiveDraft stores the draft text and returns a presigned download URL.
// Objects are laid out as <tenant>/<user>/<type>/<timestamp>-<id>.md so
// tenant data never shares a prefix.
func (a *DraftArchive) ArchiveDraft(ctx context.Context, tenantID, userID uuid.UUID, docType string, text string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s/%s-%s.md",
		tenantID, userID, docType,
		a.now().UTC().Format("20060102T150405"), uuid.New())

	reader := strings.NewReader(text)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/markdown",
		UserMetadata: map[string]string{
			"tenant-id":     tenantID.String(),
			"document-type": docType,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDraftArchiveFailed, "store draft")
	}

	u, err := a.client.PresignedGetObject(ctx, a.bucket, objectName, a.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDraftArchiveFailed, "presign draft url")
	}

	a.logger.Debug("draft archived",
		logging.String("object", objectName),
		logging.Int("bytes", len(text)))
	return u.String(), nil
}
