// Package session holds the per-session key/value store that survives page
// re-runs. Values are stored JSON-encoded so every backend has the same
// decoding semantics.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get for a key that was never set.
	ErrNotFound = errors.New("session: key not found")
	// ErrNotInteger is returned by Incr when the stored value is not an integer.
	ErrNotInteger = errors.New("session: value is not an integer")
)

// Store is the session state of one user session.
type Store interface {
	// ID identifies the session.
	ID() string
	// Get decodes the value under key into dst.
	Get(ctx context.Context, key string, dst any) error
	// Set stores v under key.
	Set(ctx context.Context, key string, v any) error
	// Has reports whether key was set.
	Has(ctx context.Context, key string) (bool, error)
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
	// Incr adds delta to the integer under key, treating a missing key as 0.
	Incr(ctx context.Context, key string, delta int64) (int64, error)
}

// SetDefault stores v under key unless the key is already present and
// reports whether it stored.
func SetDefault(ctx context.Context, s Store, key string, v any) (bool, error) {
	ok, err := s.Has(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	return true, s.Set(ctx, key, v)
}

// Int reads an integer value, returning 0 for a missing key.
func Int(ctx context.Context, s Store, key string) (int64, error) {
	var n int64
	err := s.Get(ctx, key, &n)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return n, err
}

func encode(key string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("session: encode %q: %w", key, err)
	}
	return b, nil
}

func decode(key string, raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("session: decode %q: %w", key, err)
	}
	return nil
}

func addInt(key string, raw []byte, delta int64) (int64, []byte, error) {
	var n int64
	if raw != nil {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, nil, fmt.Errorf("%w: %q", ErrNotInteger, key)
		}
	}
	n += delta
	b, err := json.Marshal(n)
	if err != nil {
		return 0, nil, err
	}
	return n, b, nil
}
