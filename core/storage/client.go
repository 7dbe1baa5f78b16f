package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Client defines the interface for storage operations.
type Client interface {
	// ListBuckets returns every bucket visible to the configured credentials.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	// MakeBucket creates a new bucket in region.
	MakeBucket(ctx context.Context, bucketName, region string) error
	// RemoveBucket deletes an empty bucket.
	RemoveBucket(ctx context.Context, bucketName string) error
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error)
	// GetObject downloads an object. The caller must close the returned Object.
	GetObject(ctx context.Context, bucketName, objectName string) (Object, error)
	// StatObject returns object metadata without the content.
	StatObject(ctx context.Context, bucketName, objectName string) (ObjectInfo, error)
	// ListObjects returns a single page of at most maxKeys keys under prefix.
	ListObjects(ctx context.Context, bucketName, prefix string, maxKeys int) (ObjectPage, error)
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string) error
}

// NewClient creates the storage client for the configured provider.
// The returned client is meant to live for the whole process.
func NewClient(cfg Config) (Client, error) {
	if cfg.PartialCredentials() {
		return nil, NewError("new_client", "", "", KindCredentials, ErrCredentialsMissing)
	}

	switch cfg.Provider {
	case ProviderMinio:
		return newMinioClient(cfg)
	case ProviderAWS, "":
		return newS3Client(context.Background(), cfg)
	default:
		return nil, NewError("new_client", "", "", KindInvalidInput, fmt.Errorf("unknown storage provider %q", cfg.Provider))
	}
}

// timeout returns the configured timeout, defaulting to 30 seconds.
func (c Config) timeout() time.Duration {
	timeout := c.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

// newTransport builds the HTTP transport used by the minio provider.
func newTransport(cfg Config) *http.Transport {
	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: true,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
	applyTransportOptions(tr, cfg)
	return tr
}

// applyTransportOptions sets the timeouts shared by both providers.
// Connection setup, TLS handshake and first response byte are bounded by the
// configured timeout; body transfer is bounded by the caller's context.
func applyTransportOptions(tr *http.Transport, cfg Config) {
	timeoutDuration := cfg.timeout()

	tr.DialContext = (&net.Dialer{
		Timeout:   timeoutDuration,
		KeepAlive: 30 * time.Second,
	}).DialContext
	tr.TLSHandshakeTimeout = timeoutDuration
	tr.ExpectContinueTimeout = 1 * time.Second
	tr.ResponseHeaderTimeout = timeoutDuration
	// Objects stored with Content-Encoding gzip are decoded by the caller.
	tr.DisableCompression = true
}
