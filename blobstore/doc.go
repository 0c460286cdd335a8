// Package blobstore provides storage abstraction for reading and writing table files.
//
// BlobStore is the interface for whole-object reads and atomic writes.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem rooted at a directory
//   - MemoryStore: In-memory, for tests
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Locations
//
// ParseURI splits a location into scheme, bucket and key:
//
//	s3://bucket/path/data.csv.gz    -> ("s3", "bucket", "path/data.csv.gz")
//	minio://bucket/data.csv         -> ("minio", "bucket", "data.csv")
//	./data/data.csv                 -> ("file", "", "./data/data.csv")
package blobstore
