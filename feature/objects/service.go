package objects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"s3-manager/core/journal"
	"s3-manager/core/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// maxBucketNameLength is the S3 limit on bucket names.
const maxBucketNameLength = 63

// ErrJournalDisabled is returned by History when no journal is configured.
var ErrJournalDisabled = errors.New("transfer journal is disabled")

// UploadOptions tune a single upload.
type UploadOptions struct {
	// ContentType overrides detection from the file content.
	ContentType string
	// Compress gzips the content and stores it with Content-Encoding gzip.
	Compress bool
	// Metadata is stored as user metadata (x-amz-meta-*).
	Metadata map[string]string
}

// BucketOptions tune bucket creation.
type BucketOptions struct {
	// RenameOnCollision appends the current date (YYYYMMDD) to a name that
	// already exists instead of failing with a conflict.
	RenameOnCollision bool
}

// Service is the object storage facade. It owns one long-lived storage client.
type Service struct {
	client  storage.Client
	cfg     storage.Config
	logger  *zap.Logger
	fs      afero.Fs
	journal journal.Recorder
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithFilesystem sets the local filesystem used by Upload and Download.
func WithFilesystem(fs afero.Fs) Option {
	return func(s *Service) { s.fs = fs }
}

// WithJournal records every mutating operation to rec.
func WithJournal(rec journal.Recorder) Option {
	return func(s *Service) { s.journal = rec }
}

// WithClock replaces time.Now, used for collision renames.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new object storage facade.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
		fs:     afero.NewOsFs(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultBucketOptions returns the bucket options from configuration.
func (s *Service) DefaultBucketOptions() BucketOptions {
	return BucketOptions{RenameOnCollision: s.cfg.RenameOnCollision}
}

// Upload uploads the local file at localPath to bucket. An empty objectName
// defaults to the file's base name. Without configured keys a denied upload
// fails with storage.KindCredentials.
func (s *Service) Upload(ctx context.Context, localPath, bucket, objectName string, opts UploadOptions) (storage.UploadInfo, error) {
	if objectName == "" {
		objectName = filepath.Base(localPath)
	}
	entry := journal.Entry{Operation: "upload", Bucket: bucket, Key: objectName, LocalPath: localPath}

	if localPath == "" {
		return storage.UploadInfo{}, s.fail(ctx, entry, invalid("upload", bucket, objectName, "local path cannot be empty"))
	}

	info, err := s.fs.Stat(localPath)
	if err != nil {
		return storage.UploadInfo{}, s.fail(ctx, entry, storage.NewError("upload", bucket, objectName, localKind(err), err))
	}
	if info.IsDir() {
		return storage.UploadInfo{}, s.fail(ctx, entry, invalid("upload", bucket, objectName, "local path is a directory"))
	}

	file, err := s.fs.Open(localPath)
	if err != nil {
		return storage.UploadInfo{}, s.fail(ctx, entry, storage.NewError("upload", bucket, objectName, localKind(err), err))
	}
	defer file.Close()

	return s.put(ctx, entry, file, info.Size(), opts)
}

// UploadReader uploads size bytes read from r under bucket/objectName.
func (s *Service) UploadReader(ctx context.Context, bucket, objectName string, r io.ReadSeeker, size int64, opts UploadOptions) (storage.UploadInfo, error) {
	entry := journal.Entry{Operation: "upload", Bucket: bucket, Key: objectName}
	return s.put(ctx, entry, r, size, opts)
}

func (s *Service) put(ctx context.Context, entry journal.Entry, r io.ReadSeeker, size int64, opts UploadOptions) (storage.UploadInfo, error) {
	if err := validate("upload", entry.Bucket, entry.Key, true); err != nil {
		return storage.UploadInfo{}, s.fail(ctx, entry, err)
	}

	putOpts := storage.PutOptions{ContentType: opts.ContentType, Metadata: opts.Metadata}
	if putOpts.ContentType == "" {
		mtype, err := mimetype.DetectReader(r)
		if err != nil {
			return storage.UploadInfo{}, s.fail(ctx, entry, storage.NewError("upload", entry.Bucket, entry.Key, storage.KindInvalidInput, err))
		}
		putOpts.ContentType = mtype.String()
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return storage.UploadInfo{}, s.fail(ctx, entry, storage.NewError("upload", entry.Bucket, entry.Key, storage.KindUnknown, err))
		}
	}

	var body io.Reader = r
	if opts.Compress {
		compressed, err := gzipAll(r)
		if err != nil {
			return storage.UploadInfo{}, s.fail(ctx, entry, storage.NewError("upload", entry.Bucket, entry.Key, storage.KindUnknown, err))
		}
		// The AWS SDK needs a seekable body to checksum plain-HTTP uploads.
		body, size = bytes.NewReader(compressed), int64(len(compressed))
		putOpts.ContentEncoding = "gzip"
	}

	uploaded, err := s.client.PutObject(ctx, entry.Bucket, entry.Key, body, size, putOpts)
	if err != nil {
		return storage.UploadInfo{}, s.fail(ctx, entry, err)
	}

	s.logger.Info("File uploaded successfully",
		zap.String("bucket", entry.Bucket),
		zap.String("key", entry.Key),
		zap.Int64("size", size),
		zap.String("content_type", putOpts.ContentType))

	entry.Bytes = size
	s.succeed(ctx, entry)
	return uploaded, nil
}

// Download writes bucket/objectName to localPath. The file is replaced only
// when the whole object was received. Gzip-encoded objects are decoded.
func (s *Service) Download(ctx context.Context, bucket, objectName, localPath string) (int64, error) {
	entry := journal.Entry{Operation: "download", Bucket: bucket, Key: objectName, LocalPath: localPath}

	if err := validate("download", bucket, objectName, true); err != nil {
		return 0, s.fail(ctx, entry, err)
	}
	if localPath == "" {
		return 0, s.fail(ctx, entry, invalid("download", bucket, objectName, "local path cannot be empty"))
	}

	obj, err := s.client.GetObject(ctx, bucket, objectName)
	if err != nil {
		return 0, s.fail(ctx, entry, err)
	}
	defer obj.Close()

	var src io.Reader = obj
	if obj.Info().ContentEncoding == "gzip" {
		gz, err := gzip.NewReader(obj)
		if err != nil {
			return 0, s.fail(ctx, entry, storage.NewError("download", bucket, objectName, storage.KindUnknown, err))
		}
		defer gz.Close()
		src = gz
	}

	written, err := s.writeFile(localPath, src)
	if err != nil {
		return 0, s.fail(ctx, entry, storage.NewError("download", bucket, objectName, localKind(err), err))
	}

	s.logger.Info("File downloaded successfully",
		zap.String("bucket", bucket),
		zap.String("key", objectName),
		zap.String("path", localPath),
		zap.Int64("size", written))

	entry.Bytes = written
	s.succeed(ctx, entry)
	return written, nil
}

// Open streams bucket/objectName as stored. The caller must close it.
func (s *Service) Open(ctx context.Context, bucket, objectName string) (storage.Object, error) {
	if err := validate("get", bucket, objectName, true); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, bucket, objectName)
	if err != nil {
		s.logger.Error("Error opening object", zap.String("bucket", bucket), zap.String("key", objectName), zap.Error(err))
		return nil, err
	}
	return obj, nil
}

// List returns a single page of keys in bucket. Continuation is not followed:
// when the bucket holds more keys the page is marked Truncated.
func (s *Service) List(ctx context.Context, bucket, prefix string) (storage.ObjectPage, error) {
	if err := validate("list", bucket, "", false); err != nil {
		return storage.ObjectPage{}, err
	}

	page, err := s.client.ListObjects(ctx, bucket, prefix, s.cfg.PageSize())
	if err != nil {
		s.logger.Error("Error listing objects", zap.String("bucket", bucket), zap.Error(err))
		return storage.ObjectPage{}, err
	}
	if page.Truncated {
		s.logger.Warn("Listing truncated to a single page",
			zap.String("bucket", bucket),
			zap.Int("returned", len(page.Keys)))
	}
	return page, nil
}

// Delete removes bucket/objectName. Removing a missing key succeeds.
func (s *Service) Delete(ctx context.Context, bucket, objectName string) error {
	entry := journal.Entry{Operation: "delete", Bucket: bucket, Key: objectName}

	if err := validate("delete", bucket, objectName, true); err != nil {
		return s.fail(ctx, entry, err)
	}
	if err := s.client.RemoveObject(ctx, bucket, objectName); err != nil {
		return s.fail(ctx, entry, err)
	}

	s.logger.Info("Object deleted", zap.String("bucket", bucket), zap.String("key", objectName))
	s.succeed(ctx, entry)
	return nil
}

// ListBuckets returns every bucket visible to the configured credentials.
func (s *Service) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		s.logger.Error("Error listing buckets", zap.Error(err))
		return nil, err
	}
	return buckets, nil
}

// CreateBucket creates bucket and returns the effective bucket name. The
// name differs from bucket only when it already existed and
// opts.RenameOnCollision is set.
func (s *Service) CreateBucket(ctx context.Context, bucket string, opts BucketOptions) (string, error) {
	entry := journal.Entry{Operation: "create_bucket", Bucket: bucket}

	if err := validate("create_bucket", bucket, "", false); err != nil {
		return "", s.fail(ctx, entry, err)
	}

	existing, err := s.client.ListBuckets(ctx)
	if err != nil {
		return "", s.fail(ctx, entry, err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		names[b.Name] = struct{}{}
	}

	name := bucket
	if _, taken := names[name]; taken {
		if !opts.RenameOnCollision {
			return "", s.fail(ctx, entry, storage.NewError("create_bucket", bucket, "", storage.KindConflict,
				fmt.Errorf("bucket %q already exists", bucket)))
		}

		name = bucket + "-" + s.now().Format("20060102")
		if len(name) > maxBucketNameLength {
			return "", s.fail(ctx, entry, invalid("create_bucket", bucket, "", "dated bucket name exceeds 63 characters"))
		}
		if _, taken := names[name]; taken {
			return "", s.fail(ctx, entry, storage.NewError("create_bucket", name, "", storage.KindConflict,
				fmt.Errorf("bucket %q and %q already exist", bucket, name)))
		}
		s.logger.Warn("Bucket name already taken, using dated name",
			zap.String("requested", bucket),
			zap.String("bucket", name))
		entry.Bucket = name
	}

	if err := s.client.MakeBucket(ctx, name, s.cfg.Region); err != nil {
		return "", s.fail(ctx, entry, err)
	}

	s.logger.Info("Bucket created", zap.String("bucket", name), zap.String("region", s.cfg.Region))
	s.succeed(ctx, entry)
	return name, nil
}

// DeleteBucket removes an empty bucket.
func (s *Service) DeleteBucket(ctx context.Context, bucket string) error {
	entry := journal.Entry{Operation: "delete_bucket", Bucket: bucket}

	if err := validate("delete_bucket", bucket, "", false); err != nil {
		return s.fail(ctx, entry, err)
	}
	if err := s.client.RemoveBucket(ctx, bucket); err != nil {
		return s.fail(ctx, entry, err)
	}

	s.logger.Info("Bucket deleted", zap.String("bucket", bucket))
	s.succeed(ctx, entry)
	return nil
}

// GetObjectMetadata returns the metadata of bucket/objectName.
func (s *Service) GetObjectMetadata(ctx context.Context, bucket, objectName string) (storage.ObjectInfo, error) {
	if err := validate("stat", bucket, objectName, true); err != nil {
		return storage.ObjectInfo{}, err
	}

	info, err := s.client.StatObject(ctx, bucket, objectName)
	if err != nil {
		s.logger.Error("Error getting object metadata",
			zap.String("bucket", bucket),
			zap.String("key", objectName),
			zap.Error(err))
		return storage.ObjectInfo{}, err
	}
	return info, nil
}

// History returns the newest journal entries.
func (s *Service) History(ctx context.Context, limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.Recent(ctx, limit)
}

// writeFile copies src into a temp file next to path and renames it into place.
func (s *Service) writeFile(path string, src io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".part-*")
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = s.fs.Remove(tmp.Name())
		return 0, err
	}
	return written, nil
}

// fail logs err, records it in the journal and returns it unchanged.
func (s *Service) fail(ctx context.Context, entry journal.Entry, err error) error {
	s.logger.Error("Storage operation failed",
		zap.String("operation", entry.Operation),
		zap.String("bucket", entry.Bucket),
		zap.String("key", entry.Key),
		zap.Stringer("kind", storage.KindOf(err)),
		zap.Error(err))

	entry.Status = journal.StatusError
	entry.Error = err.Error()
	s.record(ctx, entry)
	return err
}

func (s *Service) succeed(ctx context.Context, entry journal.Entry) {
	entry.Status = journal.StatusOK
	s.record(ctx, entry)
}

func (s *Service) record(ctx context.Context, entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record journal entry", zap.Error(err))
	}
}

func validate(op, bucket, key string, needKey bool) error {
	if bucket == "" {
		return invalid(op, bucket, key, "bucket name cannot be empty")
	}
	if needKey && key == "" {
		return invalid(op, bucket, key, "object name cannot be empty")
	}
	return nil
}

func invalid(op, bucket, key, msg string) error {
	return storage.NewError(op, bucket, key, storage.KindInvalidInput, errors.New(msg))
}

// localKind classifies local filesystem errors.
func localKind(err error) storage.Kind {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return storage.KindNotFound
	case errors.Is(err, os.ErrPermission):
		return storage.KindPermissionDenied
	default:
		return storage.KindUnknown
	}
}

func gzipAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.Copy(zw, r); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
