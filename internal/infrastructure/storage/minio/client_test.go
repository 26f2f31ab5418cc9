package minio

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/fra-monitor/pkg/errors"
)

type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *MockMinIOAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

// GetObject cannot hand back a usable *minio.Object; archive tests replace
// the open hook instead.
func (m *MockMinIOAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return nil, args.Error(1)
}

func (m *MockMinIOAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockMinIOAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

func (m *MockMinIOAPI) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	return args.Get(0).(<-chan minio.ObjectInfo)
}

func (m *MockMinIOAPI) PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expiry, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

func TestApplyDefaults(t *testing.T) {
	cfg := config.MinIOConfig{}
	applyDefaults(&cfg)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "fra-reports", cfg.Bucket)
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "fra-reports").Return(true, nil)

		c := NewClientWithAPI(api, config.MinIOConfig{}, logging.NewNopLogger())
		require.NoError(t, c.EnsureBucket(context.Background()))
		api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "reports").Return(false, nil)
		api.On("MakeBucket", mock.Anything, "reports", minio.MakeBucketOptions{Region: "ap-south-1"}).Return(nil)

		c := NewClientWithAPI(api, config.MinIOConfig{Bucket: "reports", Region: "ap-south-1"}, logging.NewNopLogger())
		require.NoError(t, c.EnsureBucket(context.Background()))
		api.AssertExpectations(t)
	})

	t.Run("unreachable", func(t *testing.T) {
		api := new(MockMinIOAPI)
		api.On("BucketExists", mock.Anything, "fra-reports").Return(false, errors.New("dial tcp"))

		c := NewClientWithAPI(api, config.MinIOConfig{}, logging.NewNopLogger())
		err := c.EnsureBucket(context.Background())
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeStorageError))
	})
}

func TestHealthCheck(t *testing.T) {
	api := new(MockMinIOAPI)
	api.On("BucketExists", mock.Anything, "fra-reports").Return(true, nil).Once()
	api.On("BucketExists", mock.Anything, "fra-reports").Return(false, nil).Once()

	c := NewClientWithAPI(api, config.MinIOConfig{}, logging.NewNopLogger())
	assert.NoError(t, c.HealthCheck(context.Background()))
	assert.Error(t, c.HealthCheck(context.Background()))

	require.NoError(t, c.Close())
	assert.Equal(t, ErrClientClosed, c.HealthCheck(context.Background()))
}

//Personal.AI order the ending
