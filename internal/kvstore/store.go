// Package kvstore defines the string-keyed persistence used for profiles,
// unlock flags, challenge records and checklist snapshots.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Store is a last-write-wins string map.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// LoadJSON decodes the value at key into a T. Missing keys, read failures
// and corrupt payloads all yield fallback.
func LoadJSON[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		zap.L().Warn("kv read failed, using default", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok || raw == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		zap.L().Debug("kv entry unreadable, using default", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return v
}

// SaveJSON encodes v and stores it at key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Prefixed namespaces every key of s under prefix.
func Prefixed(s Store, prefix string) Store {
	return prefixed{inner: s, prefix: prefix}
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

// ProfileKeys returns the store scoped to one profile.
func ProfileKeys(s Store, profileID string) Store {
	return Prefixed(s, "profile:"+profileID+":")
}
