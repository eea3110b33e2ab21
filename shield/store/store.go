package store

import (
	"context"
	"fmt"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

const (
	// DefaultValkeyAddr is used when no address is configured.
	DefaultValkeyAddr = "shield-valkey:6379"

	scanBatchSize = 100
)

// KVStore defines the key/value operations our store supports.
type KVStore interface {
	// SetValue sets the given key to the specified value.
	SetValue(ctx context.Context, key, value string) error
	// SetValueWithTTL sets the given key to the specified value with a TTL in seconds.
	SetValueWithTTL(ctx context.Context, key, value string, ttlSeconds int) error
	// GetValue retrieves the value associated with the given key.
	GetValue(ctx context.Context, key string) (ValkeyResponse, error)
	// ListKeys retrieves all keys matching the given glob pattern.
	ListKeys(ctx context.Context, pattern string) ([]string, error)
	// DeleteValue removes the value associated with the given key.
	DeleteValue(ctx context.Context, key string) error
	// Close shuts down the underlying connection.
	Close() error
}

// valkeyStore is a concrete implementation of KVStore using the valkey-go client.
type valkeyStore struct {
	client valkey.Client
}

// NewValkeyStore creates a new store connected to addr. An empty addr falls
// back to DefaultValkeyAddr.
func NewValkeyStore(addr string) (KVStore, error) {
	if addr == "" {
		addr = DefaultValkeyAddr
	}
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey at %s: %w", addr, err)
	}
	return &valkeyStore{client: client}, nil
}

// SetValue implements KVStore by executing a SET command.
func (s *valkeyStore) SetValue(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(key).Value(value).Build()
	return s.client.Do(ctx, cmd).Error()
}

// SetValueWithTTL implements KVStore by executing a SET command with EX.
func (s *valkeyStore) SetValueWithTTL(ctx context.Context, key, value string, ttlSeconds int) error {
	cmd := s.client.B().Set().Key(key).Value(value).Ex(time.Duration(ttlSeconds) * time.Second).Build()
	return s.client.Do(ctx, cmd).Error()
}

// GetValue implements KVStore by executing a GET command.
func (s *valkeyStore) GetValue(ctx context.Context, key string) (ValkeyResponse, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	var val ValkeyResponse

	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return val, fmt.Errorf("key '%s': %w", key, ErrNotFound)
		}
		return val, fmt.Errorf("valkey GET for key '%s' failed: %w", key, err)
	}

	stringValue, err := resp.ToString()
	if err != nil {
		return val, fmt.Errorf("failed to convert valkey reply to string for key '%s': %w", key, err)
	}

	return ValkeyResponse{Message: ValkeyValue{Value: stringValue}}, nil
}

// ListKeys implements KVStore by iterating SCAN with a MATCH pattern.
func (s *valkeyStore) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatchSize).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("valkey SCAN with pattern '%s' failed: %w", pattern, err)
		}
		keys = append(keys, entry.Elements...)

		cursor = entry.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

// DeleteValue implements KVStore by executing a DEL command.
func (s *valkeyStore) DeleteValue(ctx context.Context, key string) error {
	cmd := s.client.B().Del().Key(key).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Close shuts down the underlying client connection.
func (s *valkeyStore) Close() error {
	s.client.Close()
	return nil
}

// ValkeyResponse wraps a string reply.
type ValkeyResponse struct {
	Message ValkeyValue `json:"Message"`
	Type    string      `json:"Type"`
}

type ValkeyValue struct {
	Value string `json:"Value"`
}
