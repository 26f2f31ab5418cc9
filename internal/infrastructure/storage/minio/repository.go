package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

const uploadPrefix = "uploads"

// ArchivedObject describes a stored upload.
type ArchivedObject struct {
	Bucket     string    `json:"bucket"`
	Key        string    `json:"key"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	ETag       string    `json:"etag,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentArchive stores uploaded FRA reports so they can be re-extracted by
// the worker or downloaded later.
type DocumentArchive interface {
	Put(ctx context.Context, fileName string, data []byte) (*ArchivedObject, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, max int) ([]ArchivedObject, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type minioArchive struct {
	client *Client
	logger logging.Logger
	now    func() time.Time
	open   func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// NewDocumentArchive returns a DocumentArchive backed by client's bucket.
func NewDocumentArchive(client *Client, log logging.Logger) DocumentArchive {
	a := &minioArchive{client: client, logger: log, now: time.Now}
	a.open = func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
		return client.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	}
	return a
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds uploads/YYYY/MM/DD/<id>/<name> with name reduced to a
// safe character set.
func ObjectKey(fileName string, at time.Time, id string) string {
	name := reUnsafeName.ReplaceAllString(path.Base(strings.TrimSpace(fileName)), "_")
	name = strings.Trim(name, "_.")
	if name == "" {
		name = "report.pdf"
	}
	return fmt.Sprintf("%s/%s/%s/%s", uploadPrefix, at.UTC().Format("2006/01/02"), id, name)
}

func (a *minioArchive) Put(ctx context.Context, fileName string, data []byte) (*ArchivedObject, error) {
	if len(data) == 0 {
		return nil, ErrInvalidRequest.WithDetail("empty document")
	}
	now := a.now().UTC()
	key := ObjectKey(fileName, now, uuid.New().String())
	bucket := a.client.Bucket()

	info, err := a.client.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/pdf",
		UserMetadata: map[string]string{"original-name": fileName},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "upload failed")
	}

	a.logger.Debug("Archived document", logging.String("key", key), logging.Int64("size", info.Size))
	return &ArchivedObject{
		Bucket:     bucket,
		Key:        key,
		FileName:   fileName,
		Size:       int64(len(data)),
		ETag:       info.ETag,
		UploadedAt: now,
	}, nil
}

func (a *minioArchive) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidRequest.WithDetail("empty key")
	}
	obj, err := a.open(ctx, a.client.Bucket(), key)
	if err != nil {
		return nil, mapObjectError(err, "download failed")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapObjectError(err, "download failed")
	}
	return data, nil
}

func (a *minioArchive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.api.StatObject(ctx, a.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "stat failed")
	}
	return true, nil
}

func (a *minioArchive) Delete(ctx context.Context, key string) error {
	if err := a.client.api.RemoveObject(ctx, a.client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "delete failed")
	}
	return nil
}

func (a *minioArchive) List(ctx context.Context, prefix string, max int) ([]ArchivedObject, error) {
	if prefix == "" {
		prefix = uploadPrefix + "/"
	}
	if max <= 0 {
		max = 1000
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bucket := a.client.Bucket()
	var out []ArchivedObject
	for obj := range a.client.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "list failed")
		}
		out = append(out, ArchivedObject{
			Bucket:     bucket,
			Key:        obj.Key,
			FileName:   path.Base(obj.Key),
			Size:       obj.Size,
			ETag:       obj.ETag,
			UploadedAt: obj.LastModified,
		})
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

func (a *minioArchive) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	u, err := a.client.api.PresignedGetObject(ctx, a.client.Bucket(), key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "presign failed")
	}
	return u.String(), nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func mapObjectError(err error, msg string) error {
	if isNoSuchKey(err) {
		return ErrObjectNotFound.WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, msg)
}

//Personal.AI order the ending
