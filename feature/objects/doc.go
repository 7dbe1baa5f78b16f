// Package objects is the object storage facade.
//
// Service wraps one long-lived storage.Client and exposes the operations
// callers need: upload, download, list, delete, bucket creation and removal,
// and object metadata. Every operation takes a context, logs through zap and
// returns errors carrying a storage.Kind.
//
// # Behavior worth knowing
//
//   - List returns a single page. ObjectPage.Truncated reports that more keys exist.
//   - Delete of a missing key succeeds when the service treats it that way (S3 does).
//   - CreateBucket fails with a conflict on a taken name unless RenameOnCollision
//     is set, in which case the name gets a -YYYYMMDD suffix and the effective
//     name is returned.
//   - Uploads may be gzip-compressed; downloads of gzip-encoded objects are
//     decoded before they reach the local file.
//
// # HTTP Endpoints
//
//   - GET    /buckets
//   - POST   /buckets/:bucket?rename=
//   - DELETE /buckets/:bucket
//   - GET    /buckets/:bucket/objects?prefix=
//   - PUT    /buckets/:bucket/objects/*key?compress=
//   - GET    /buckets/:bucket/objects/*key
//   - DELETE /buckets/:bucket/objects/*key
//   - GET    /buckets/:bucket/metadata/*key
//   - GET    /history?limit=
package objects
