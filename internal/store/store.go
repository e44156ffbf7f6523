// Package store persists traced SVG documents so that adapters can hand out
// a download link instead of, or in addition to, the inline document.
//
// Storage is best effort: callers report a *StorageError next to a
// successful trace and never fail the trace because of it.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Load when no document is stored under the id.
var ErrNotFound = errors.New("vector not found")

// StorageError wraps every failure of a store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store saves and retrieves SVG documents by content id.
type Store interface {
	Save(ctx context.Context, svg string) (string, error)
	Load(ctx context.Context, id string) (string, error)
}

// ID returns the content id of a document: the first 16 hex digits of its
// SHA-256. Saving the same document twice yields the same id.
func ID(svg string) string {
	sum := sha256.Sum256([]byte(svg))
	return hex.EncodeToString(sum[:])[:16]
}

// RedisStore implements Store on Redis strings.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*RedisStore)

// WithTTL sets the expiration of stored documents. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// DefaultPrefix is the key prefix used unless WithPrefix overrides it.
const DefaultPrefix = "motif:vector:"

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *RedisStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Save stores the document and returns its id.
func (s *RedisStore) Save(ctx context.Context, svg string) (string, error) {
	id := ID(svg)
	if err := s.client.Set(ctx, s.key(id), svg, s.ttl).Err(); err != nil {
		return "", &StorageError{Op: "save", Err: err}
	}
	return id, nil
}

// Load returns the document stored under id, or a *StorageError wrapping
// ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, id string) (string, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", &StorageError{Op: "load", Err: ErrNotFound}
		}
		return "", &StorageError{Op: "load", Err: err}
	}
	return val, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
