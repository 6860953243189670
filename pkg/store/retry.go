package store

import (
	"context"
	"errors"
	"time"
)

// Connection retry defaults for network backends.
const (
	DefaultConnectAttempts = 4
	DefaultConnectDelay    = 250 * time.Millisecond
)

// TransientError marks a failure worth retrying, such as a refused
// connection while a database container is still starting.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError. It returns nil for nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with [Transient] are retried; other errors return
// immediately. The last error is returned unwrapped, or ctx.Err() if ctx is
// cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var t *TransientError
		if !errors.As(err, &t) {
			return err
		}
		lastErr = t.Err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// Connect retries a connection check with the default attempts and delay.
// Every failure of ping is treated as transient.
func Connect(ctx context.Context, ping func(context.Context) error) error {
	return Retry(ctx, DefaultConnectAttempts, DefaultConnectDelay, func() error {
		return Transient(ping(ctx))
	})
}
