// Package store defines the narrow storage interface the recipe index and
// loop table are written through, with in-memory and filesystem backends.
//
// Keys are slash-separated relative paths such as "minecraft/torch" or
// "_manifest". Keys whose last segment starts with '_' are internal and are
// left out of the recipe manifest. Database-backed implementations live in
// the sqlite, redis and mongo subpackages.
package store

import (
	"context"
	"errors"

	cterrors "github.com/matzehuels/crafttable/pkg/errors"
)

// ErrNotFound is returned by Read when the key does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store persists opaque artifact bytes by key.
type Store interface {
	// Write stores data under key, replacing any previous value.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the data stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every stored key in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// ValidateKey reports whether key is usable by every backend.
func ValidateKey(key string) error {
	return cterrors.ValidateKey(key)
}
