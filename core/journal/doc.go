// Package journal records every storage operation to the optional database.
//
// Each upload, download, listing, deletion and bucket change produces one
// Entry with the bucket, key, local path, byte count and outcome. The
// journal is best effort: a failed write is logged by the caller and never
// fails the storage operation itself.
package journal
