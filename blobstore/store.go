package blobstore

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for reading and writing whole blobs.
type BlobStore interface {
	// Get reads the full content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Location is a parsed blob URI.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

// ParseURI parses s3://bucket/key, minio://bucket/key or a local path.
func ParseURI(uri string) (Location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		if uri == "" {
			return Location{}, fmt.Errorf("empty location")
		}
		return Location{Scheme: "file", Key: uri}, nil
	}

	switch scheme {
	case "file":
		if rest == "" {
			return Location{}, fmt.Errorf("missing path in %q", uri)
		}
		return Location{Scheme: scheme, Key: rest}, nil
	case "s3", "minio":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("expected %s://bucket/key, got %q", scheme, uri)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("unsupported scheme %q", scheme)
	}
}
