package ports

import (
	"context"
	"io"
)

// ByteStorage holds file content by storage key.
type ByteStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// Janitor removes content of deleted files in the background.
type Janitor interface {
	Enqueue(key string)
}
