package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"s3-manager/core/storage"
	"s3-manager/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return gormDB, sqlMock
}

func TestCheck(t *testing.T) {
	t.Run("Healthy Without Database", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return([]storage.BucketInfo{{Name: "a"}, {Name: "b"}}, nil)

		report := NewService(client, nil, zap.NewNop()).Check(context.Background())
		assert.True(t, report.Healthy)
		assert.Equal(t, 2, report.Buckets)
		assert.Equal(t, StatusDisabled, report.Database.Status)
	})

	t.Run("Storage Credentials Rejected", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).
			Return(nil, storage.NewError("list_buckets", "", "", storage.KindCredentials, errors.New("InvalidAccessKeyId")))

		report := NewService(client, nil, zap.NewNop()).Check(context.Background())
		assert.False(t, report.Healthy)
		assert.Equal(t, StatusError, report.Storage.Status)
		assert.Equal(t, "credentials", report.Storage.Kind)
	})

	t.Run("Database Ping", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectPing()

		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return([]storage.BucketInfo{}, nil)

		report := NewService(client, db, zap.NewNop()).Check(context.Background())
		assert.True(t, report.Healthy)
		assert.Equal(t, StatusOK, report.Database.Status)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("Database Down", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return([]storage.BucketInfo{}, nil)

		report := NewService(client, db, zap.NewNop()).Check(context.Background())
		assert.False(t, report.Healthy)
		assert.Equal(t, "connection refused", report.Database.Error)
	})
}

func TestHandleHealth(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListBuckets", mock.Anything).
		Return(nil, storage.NewError("list_buckets", "", "", storage.KindConnectionFailed, errors.New("dial tcp"))).Once()
	client.On("ListBuckets", mock.Anything).Return([]storage.BucketInfo{}, nil)

	feature := NewFeature(client, nil, zap.NewNop())
	assert.Equal(t, "health", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
