package domain

import "context"

// FileStore abstracts raw file byte storage for product images.
// The initial implementation stores BLOBs in SQLite; this interface
// allows swapping to filesystem, S3, or another backend later.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
