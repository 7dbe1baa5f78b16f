package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by the aws provider.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

type s3Client struct {
	api S3API
}

// NewS3Client wraps an existing S3API, mainly for tests.
func NewS3Client(api S3API) Client {
	return &s3Client{api: api}
}

func newS3Client(ctx context.Context, cfg Config) (Client, error) {
	// The buildable client lets the SDK add AWS_CA_BUNDLE roots to our transport.
	httpClient := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
		applyTransportOptions(tr, cfg)
	})

	loadOpts := []func(*config.LoadOptions) error{
		config.WithHTTPClient(httpClient),
	}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	// Without static keys the SDK default chain (env, shared config, IMDS) applies.
	if cfg.HasCredentials() {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, NewError("new_client", "", "", KindInvalidInput, fmt.Errorf("failed to load aws config: %w", err))
	}
	if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	endpoint := endpointURL(cfg)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &s3Client{api: client}, nil
}

// endpointURL adds the scheme the SDK requires to a bare host:port endpoint.
func endpointURL(cfg Config) string {
	if cfg.Endpoint == "" {
		return ""
	}
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

func (c *s3Client) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, mapAWSError("list_buckets", "", "", err)
	}

	buckets := make([]BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, BucketInfo{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

func (c *s3Client) MakeBucket(ctx context.Context, bucketName, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucketName)}
	// us-east-1 rejects an explicit location constraint.
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	_, err := c.api.CreateBucket(ctx, input)
	return mapAWSError("make_bucket", bucketName, "", err)
}

func (c *s3Client) RemoveBucket(ctx context.Context, bucketName string) error {
	_, err := c.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucketName)})
	return mapAWSError("remove_bucket", bucketName, "", err)
}

func (c *s3Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error) {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(bucketName),
		Key:      aws.String(objectName),
		Body:     reader,
		Metadata: opts.Metadata,
	}
	if objectSize >= 0 {
		input.ContentLength = aws.Int64(objectSize)
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentEncoding != "" {
		input.ContentEncoding = aws.String(opts.ContentEncoding)
	}

	out, err := c.api.PutObject(ctx, input)
	if err != nil {
		return UploadInfo{}, mapAWSError("put", bucketName, objectName, err)
	}
	return UploadInfo{
		Bucket: bucketName,
		Key:    objectName,
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
		Size:   objectSize,
	}, nil
}

func (c *s3Client) GetObject(ctx context.Context, bucketName, objectName string) (Object, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return nil, mapAWSError("get", bucketName, objectName, err)
	}

	info := ObjectInfo{
		Bucket:          bucketName,
		Key:             objectName,
		Size:            aws.ToInt64(out.ContentLength),
		ContentType:     aws.ToString(out.ContentType),
		ContentEncoding: aws.ToString(out.ContentEncoding),
		ETag:            strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified:    aws.ToTime(out.LastModified),
		Metadata:        out.Metadata,
	}
	return NewObject(out.Body, info), nil
}

func (c *s3Client) StatObject(ctx context.Context, bucketName, objectName string) (ObjectInfo, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return ObjectInfo{}, mapAWSError("stat", bucketName, objectName, err)
	}

	return ObjectInfo{
		Bucket:          bucketName,
		Key:             objectName,
		Size:            aws.ToInt64(out.ContentLength),
		ContentType:     aws.ToString(out.ContentType),
		ContentEncoding: aws.ToString(out.ContentEncoding),
		ETag:            strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified:    aws.ToTime(out.LastModified),
		Metadata:        out.Metadata,
	}, nil
}

func (c *s3Client) ListObjects(ctx context.Context, bucketName, prefix string, maxKeys int) (ObjectPage, error) {
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		MaxKeys: aws.Int32(int32(maxKeys)),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	// Single request; a continuation token in the response is not followed.
	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return ObjectPage{}, mapAWSError("list", bucketName, "", err)
	}

	page := ObjectPage{
		Bucket:    bucketName,
		Prefix:    prefix,
		Keys:      make([]string, 0, len(out.Contents)),
		Truncated: aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		page.Keys = append(page.Keys, aws.ToString(obj.Key))
	}
	return page, nil
}

func (c *s3Client) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectName),
	})
	return mapAWSError("remove", bucketName, objectName, err)
}
