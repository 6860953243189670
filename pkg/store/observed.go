package store

import (
	"context"
	"errors"

	"github.com/matzehuels/crafttable/pkg/observability"
)

// Observed wraps a Store and reports its traffic to the registered
// observability store hooks under the given backend name.
func Observed(s Store, backend string) Store {
	return &observed{Store: s, backend: backend}
}

type observed struct {
	Store
	backend string
}

func (o *observed) Write(ctx context.Context, key string, data []byte) error {
	err := o.Store.Write(ctx, key, data)
	if err == nil {
		observability.Store().OnStoreWrite(ctx, o.backend, len(data))
	}
	return err
}

func (o *observed) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := o.Store.Read(ctx, key)
	if err == nil || errors.Is(err, ErrNotFound) {
		observability.Store().OnStoreRead(ctx, o.backend, err == nil)
	}
	return data, err
}

func (o *observed) Delete(ctx context.Context, key string) error {
	err := o.Store.Delete(ctx, key)
	if err == nil {
		observability.Store().OnStoreDelete(ctx, o.backend)
	}
	return err
}
