package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioClient struct {
	client *minio.Client
	// anonymous is set when no keys are configured; requests go unsigned.
	anonymous bool
}

func newMinioClient(cfg Config) (Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}

	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		Transport:    newTransport(cfg),
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, NewError("new_client", "", "", KindInvalidInput, fmt.Errorf("failed to create minio client: %w", err))
	}
	// Minio connects lazily; the transport timeouts bound the first real call.

	return &minioClient{client: client, anonymous: !cfg.HasCredentials()}, nil
}

func (c *minioClient) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	raw, err := c.client.ListBuckets(ctx)
	if err != nil {
		return nil, c.mapError("list_buckets", "", "", err)
	}

	buckets := make([]BucketInfo, len(raw))
	for i, b := range raw {
		buckets[i] = BucketInfo{Name: b.Name, CreatedAt: b.CreationDate}
	}
	return buckets, nil
}

func (c *minioClient) MakeBucket(ctx context.Context, bucketName, region string) error {
	err := c.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: region})
	return c.mapError("make_bucket", bucketName, "", err)
}

func (c *minioClient) RemoveBucket(ctx context.Context, bucketName string) error {
	return c.mapError("remove_bucket", bucketName, "", c.client.RemoveBucket(ctx, bucketName))
}

func (c *minioClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error) {
	info, err := c.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType:     opts.ContentType,
		ContentEncoding: opts.ContentEncoding,
		UserMetadata:    opts.Metadata,
	})
	if err != nil {
		return UploadInfo{}, c.mapError("put", bucketName, objectName, err)
	}
	return UploadInfo{Bucket: info.Bucket, Key: info.Key, ETag: info.ETag, Size: info.Size}, nil
}

func (c *minioClient) GetObject(ctx context.Context, bucketName, objectName string) (Object, error) {
	obj, err := c.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.mapError("get", bucketName, objectName, err)
	}

	// GetObject is lazy; Stat surfaces missing objects before the caller reads.
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, c.mapError("get", bucketName, objectName, err)
	}
	return NewObject(obj, minioObjectInfo(bucketName, stat)), nil
}

func (c *minioClient) StatObject(ctx context.Context, bucketName, objectName string) (ObjectInfo, error) {
	stat, err := c.client.StatObject(ctx, bucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, c.mapError("stat", bucketName, objectName, err)
	}
	return minioObjectInfo(bucketName, stat), nil
}

func (c *minioClient) ListObjects(ctx context.Context, bucketName, prefix string, maxKeys int) (ObjectPage, error) {
	if maxKeys <= 0 {
		maxKeys = 1000
	}
	page := ObjectPage{Bucket: bucketName, Prefix: prefix, Keys: []string{}}
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   maxKeys,
	}

	// Breaking out of the iterator stops the listing.
	for obj := range c.client.ListObjectsIter(ctx, bucketName, opts) {
		if obj.Err != nil {
			return ObjectPage{}, c.mapError("list", bucketName, "", obj.Err)
		}
		if len(page.Keys) == maxKeys {
			page.Truncated = true
			break
		}
		page.Keys = append(page.Keys, obj.Key)
	}
	return page, nil
}

func (c *minioClient) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	err := c.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
	return c.mapError("remove", bucketName, objectName, err)
}

// mapError maps err like mapMinioError. An unsigned request that is denied
// means credentials are missing, not that the caller lacks a grant.
func (c *minioClient) mapError(op, bucket, key string, err error) error {
	mapped := mapMinioError(op, bucket, key, err)
	if c.anonymous && IsPermissionDenied(mapped) {
		return NewError(op, bucket, key, KindCredentials, errors.Join(ErrCredentialsMissing, err))
	}
	return mapped
}

func minioObjectInfo(bucketName string, stat minio.ObjectInfo) ObjectInfo {
	info := ObjectInfo{
		Bucket:       bucketName,
		Key:          stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}
	if stat.Metadata != nil {
		info.ContentEncoding = stat.Metadata.Get("Content-Encoding")
	}
	if len(stat.UserMetadata) > 0 {
		info.Metadata = make(map[string]string, len(stat.UserMetadata))
		for k, v := range stat.UserMetadata {
			info.Metadata[k] = v
		}
	}
	return info
}
