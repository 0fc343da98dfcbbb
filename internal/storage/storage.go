package storage

import "context"

// Store is the byte-blob collaborator the core writes originals and
// thumbnails through. Keys are opaque slash-separated strings built by the
// service; a Store never interprets them beyond hierarchy.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
