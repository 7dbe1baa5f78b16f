package mocks

import (
	"context"
	"errors"
	"io"

	"s3-manager/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	args := m.Called(ctx)
	if buckets, ok := args.Get(0).([]storage.BucketInfo); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucketName, region string) error {
	args := m.Called(ctx, bucketName, region)
	return args.Error(0)
}

func (m *Client) RemoveBucket(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts storage.PutOptions) (storage.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(storage.UploadInfo), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string) (storage.Object, error) {
	args := m.Called(ctx, bucketName, objectName)
	if fn, ok := args.Get(0).(func(context.Context, string, string) storage.Object); ok {
		if obj := fn(ctx, bucketName, objectName); obj != nil {
			return obj, args.Error(1)
		}
		return nil, storage.NewError("get", bucketName, objectName, storage.KindNotFound, errors.New("NoSuchKey"))
	}
	if obj, ok := args.Get(0).(storage.Object); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) StatObject(ctx context.Context, bucketName, objectName string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucketName, prefix string, maxKeys int) (storage.ObjectPage, error) {
	args := m.Called(ctx, bucketName, prefix, maxKeys)
	return args.Get(0).(storage.ObjectPage), args.Error(1)
}

func (m *Client) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}
