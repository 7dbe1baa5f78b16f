// Package storage provides an abstraction layer for object storage services.
//
// It wraps either the AWS SDK for Go v2 or the MinIO Go client behind a single
// provider-neutral Client interface. Both providers speak the S3 protocol, so
// the same code works against Amazon S3, MinIO, LocalStack and other
// S3-compatible services.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
// A Client is created once by NewClient and is safe for concurrent use.
//
// # Operations
//
//   - ListBuckets / MakeBucket / RemoveBucket: bucket lifecycle.
//   - PutObject: uploads content (with size, content type and metadata).
//   - GetObject: retrieves content as a stream.
//   - StatObject: returns object metadata without the body.
//   - ListObjects: returns a single page of keys (no continuation).
//   - RemoveObject: deletes an object. Missing objects are not an error.
//
// # Errors
//
// Every provider error is translated into *Error carrying a Kind, so callers
// can use IsNotFound, IsConflict, IsCredentials and friends instead of
// matching on SDK-specific types.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	buckets, err := client.ListBuckets(ctx)
package storage
