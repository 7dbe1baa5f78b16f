package storage

import (
	"io"
	"strconv"
	"time"
)

// BucketInfo describes a storage bucket.
type BucketInfo struct {
	// Name is the bucket name.
	Name string `json:"name"`
	// CreatedAt is when the bucket was created. Zero if the provider does not expose it.
	CreatedAt time.Time `json:"created_at"`
}

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	Bucket          string            `json:"bucket"`
	Key             string            `json:"key"`
	Size            int64             `json:"size"`
	ContentType     string            `json:"content_type,omitempty"`
	ContentEncoding string            `json:"content_encoding,omitempty"`
	ETag            string            `json:"etag,omitempty"`
	LastModified    time.Time         `json:"last_modified"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Fields flattens the object metadata into a string mapping.
func (o ObjectInfo) Fields() map[string]string {
	fields := map[string]string{
		"Bucket":        o.Bucket,
		"Key":           o.Key,
		"ContentLength": strconv.FormatInt(o.Size, 10),
	}
	if o.ContentType != "" {
		fields["ContentType"] = o.ContentType
	}
	if o.ContentEncoding != "" {
		fields["ContentEncoding"] = o.ContentEncoding
	}
	if o.ETag != "" {
		fields["ETag"] = o.ETag
	}
	if !o.LastModified.IsZero() {
		fields["LastModified"] = o.LastModified.UTC().Format(time.RFC3339)
	}
	for k, v := range o.Metadata {
		fields["x-amz-meta-"+k] = v
	}
	return fields
}

// ObjectPage is a single page of a bucket listing.
type ObjectPage struct {
	Bucket string   `json:"bucket"`
	Prefix string   `json:"prefix,omitempty"`
	Keys   []string `json:"keys"`
	// Truncated is true when the bucket holds more keys than this page.
	// Continuation is deliberately not followed.
	Truncated bool `json:"truncated"`
}

// PutOptions are the optional attributes of an uploaded object.
type PutOptions struct {
	ContentType     string
	ContentEncoding string
	Metadata        map[string]string
}

// UploadInfo is returned by PutObject.
type UploadInfo struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	ETag   string `json:"etag,omitempty"`
	Size   int64  `json:"size"`
}

// Object is a streaming handle to an object's content.
// The caller must Close it.
type Object interface {
	io.ReadCloser
	// Info returns the metadata delivered with the content.
	Info() ObjectInfo
}

type object struct {
	io.ReadCloser
	info ObjectInfo
}

func (o *object) Info() ObjectInfo {
	return o.info
}

// NewObject wraps a reader and its metadata into an Object.
func NewObject(rc io.ReadCloser, info ObjectInfo) Object {
	return &object{ReadCloser: rc, info: info}
}
