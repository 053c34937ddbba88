package storage

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("item not found")
	// ErrCorruptData is returned when a stored object fails to decode.
	ErrCorruptData = errors.New("corrupt stored data")
)

// StorageError wraps an underlying I/O failure so callers can tell it
// apart from validation or authentication errors.
type StorageError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " failed for key " + e.Key + ": " + e.Cause.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError wraps cause in a StorageError.
func NewStorageError(op, key string, cause error) *StorageError {
	return &StorageError{Op: op, Key: key, Cause: cause}
}

// SecureStorage is the at-rest persistence boundary. Values are opaque
// strings; callers encrypt anything sensitive before it gets here.
type SecureStorage interface {
	SetItem(ctx context.Context, key, value string) error
	// GetItem returns ErrNotFound when the key is absent.
	GetItem(ctx context.Context, key string) (string, error)
	DeleteItem(ctx context.Context, key string) error
	SetObject(ctx context.Context, key string, value interface{}) error
	// GetObject returns ErrCorruptData when the stored JSON does not
	// decode into out, never a silently wrong value.
	GetObject(ctx context.Context, key string, out interface{}) error
}
