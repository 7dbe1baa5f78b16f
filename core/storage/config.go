package storage

// Provider identifies the SDK backing the storage client.
type Provider string

const (
	// ProviderAWS talks to Amazon S3 (or an S3-compatible endpoint) through aws-sdk-go-v2.
	ProviderAWS Provider = "aws"
	// ProviderMinio talks to any S3-compatible service through minio-go.
	ProviderMinio Provider = "minio"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Provider selects the backing SDK (aws, minio).
	Provider Provider `mapstructure:"provider" default:"aws"`
	// Endpoint is the URL of the storage service. Empty means the AWS default endpoint.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// PathStyle forces path-style addressing (required by most S3-compatible services).
	PathStyle bool `mapstructure:"path_style" default:"false"`
	// Region is the location of the buckets (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ListPageSize caps the number of keys returned by a single listing.
	ListPageSize int `mapstructure:"list_page_size" default:"1000"`
	// RenameOnCollision makes CreateBucket append the current date to a
	// bucket name that already exists instead of failing.
	RenameOnCollision bool `mapstructure:"rename_on_collision" default:"false"`
}

// HasCredentials reports whether both static keys are configured.
func (c Config) HasCredentials() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// PartialCredentials reports whether exactly one of the static keys is set.
func (c Config) PartialCredentials() bool {
	return (c.AccessKey == "") != (c.SecretKey == "")
}

// PageSize returns ListPageSize, falling back to the S3 maximum of 1000.
func (c Config) PageSize() int {
	if c.ListPageSize <= 0 || c.ListPageSize > 1000 {
		return 1000
	}
	return c.ListPageSize
}
