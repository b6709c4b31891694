// Package blob provides storage.BlobStore implementations for asset file
// bytes: a local filesystem store and an S3-compatible object store.
package blob
