package repo

import (
	"context"

	"gorm.io/gorm"
)

// DefaultChunkSize bounds IN-list length when callers pass zero.
const DefaultChunkSize = 500

// Base provides a shared foundation for domain repositories.
type Base struct {
	db        *gorm.DB
	chunkSize int
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB, chunkSize int) Base {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return Base{db: db, chunkSize: chunkSize}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// ChunkSize reports the configured IN-list bound.
func (b Base) ChunkSize() int {
	return b.chunkSize
}

// Chunk splits values into consecutive slices of at most size elements.
func Chunk[T any](values []T, size int) [][]T {
	if len(values) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
