// Package storage abstracts where uploaded files live. The default backend is
// a local directory; an S3-compatible backend is available for deployments
// that want uploads off the host.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known; -1 lets the backend
// buffer or chunk as it supports. ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object. Key is the handle used for later
// Get/Delete calls and is what document records carry as their storage path.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage stores and retrieves uploaded files by key. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Put stores an object under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns an object's content as a streaming reader plus its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a key that does not exist is
	// an error for backends that can tell (the disk backend can).
	Delete(ctx context.Context, key string) error
}
