// Package redis implements the ephemeral session store on Redis.
//
// Per-room resource values live in a hash and the session log in a capped
// list. Nothing here is durable state; the character journal stays in SQLite.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/astmary-project/astmery/internal/session"
	"github.com/astmary-project/astmery/internal/storage"
)

const (
	resourceKeyPrefix = "astmery:room:resources:"
	logKeyPrefix      = "astmery:room:log:"

	// maxLogEntries caps the per-room session log. Older entries fall off.
	maxLogEntries = 500
)

// Store provides a Redis-backed session store.
type Store struct {
	client *redis.Client
}

// Open connects to a Redis instance and verifies the connection.
func Open(ctx context.Context, addr string, db int) (*Store, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

// New wraps an existing client. Useful for tests.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close releases the underlying connection pool. Nil-safe.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// PutResourceValues replaces a room's resource value overlay.
func (s *Store) PutResourceValues(ctx context.Context, roomID string, values map[string]float64) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("session storage is not configured")
	}
	if strings.TrimSpace(roomID) == "" {
		return fmt.Errorf("room id is required")
	}

	key := resourceKeyPrefix + roomID
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		fields := make(map[string]any, len(values))
		for id, value := range values {
			fields[id] = strconv.FormatFloat(value, 'f', -1, 64)
		}
		pipe.HSet(ctx, key, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put resource values: %w", err)
	}
	return nil
}

// GetResourceValues loads a room's resource value overlay. A room with no
// stored values yields an empty map, not an error.
func (s *Store) GetResourceValues(ctx context.Context, roomID string) (map[string]float64, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("session storage is not configured")
	}

	fields, err := s.client.HGetAll(ctx, resourceKeyPrefix+roomID).Result()
	if err != nil {
		return nil, fmt.Errorf("get resource values: %w", err)
	}

	values := make(map[string]float64, len(fields))
	for id, raw := range fields {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("decode resource value %q: %w", id, err)
		}
		values[id] = value
	}
	return values, nil
}

// AppendSessionEvent pushes one event onto the room log and trims it to the
// retention cap.
func (s *Store) AppendSessionEvent(ctx context.Context, roomID string, evt session.Event) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("session storage is not configured")
	}
	if strings.TrimSpace(roomID) == "" {
		return fmt.Errorf("room id is required")
	}

	encoded, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode session event: %w", err)
	}

	key := logKeyPrefix + roomID
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, encoded)
	pipe.LTrim(ctx, key, 0, maxLogEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append session event: %w", err)
	}
	return nil
}

// ListSessionEvents returns up to limit recent events, oldest first. A
// non-positive limit returns the full retained log.
func (s *Store) ListSessionEvents(ctx context.Context, roomID string, limit int64) ([]session.Event, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("session storage is not configured")
	}
	if limit <= 0 || limit > maxLogEntries {
		limit = maxLogEntries
	}

	raw, err := s.client.LRange(ctx, logKeyPrefix+roomID, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list session events: %w", err)
	}

	// LPush stores newest first; reverse into chronological order.
	events := make([]session.Event, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var evt session.Event
		if err := json.Unmarshal([]byte(raw[i]), &evt); err != nil {
			return nil, fmt.Errorf("decode session event: %w", err)
		}
		events = append(events, evt)
	}
	return events, nil
}

var _ storage.SessionStore = (*Store)(nil)
