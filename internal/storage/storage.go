package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the local token cache.

// Store keeps short-lived values, such as access tokens, until they expire.
type Store interface {
	Close() error
	Get(key string) (string, bool, error)
	Put(key, value string, ttl time.Duration) error
	Delete(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CleanupInterval time.Duration
}

const defaultCleanupInterval = 12 * time.Hour

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                            { return nil }
func (noopStore) Get(string) (string, bool, error)        { return "", false, nil }
func (noopStore) Put(string, string, time.Duration) error { return nil }
func (noopStore) Delete(string) error                     { return nil }
