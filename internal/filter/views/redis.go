package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fleetfilter:views:"

// RedisStore keeps one hash per domain, field = view name, value = JSON.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client), nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Health pings the server.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func domainKey(domain string) string { return keyPrefix + domain }

// Save stores v, stamping CreatedAt when unset.
func (s *RedisStore) Save(ctx context.Context, v View) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now().UTC()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}
	if err := s.client.HSet(ctx, domainKey(v.Domain), v.Name, b).Err(); err != nil {
		return fmt.Errorf("saving view %q: %w", v.Name, err)
	}
	return nil
}

// Get returns the named view.
func (s *RedisStore) Get(ctx context.Context, domain, name string) (View, error) {
	raw, err := s.client.HGet(ctx, domainKey(domain), name).Bytes()
	if errors.Is(err, redis.Nil) {
		return View{}, ErrViewNotFound
	}
	if err != nil {
		return View{}, fmt.Errorf("loading view %q: %w", name, err)
	}
	var v View
	if err := json.Unmarshal(raw, &v); err != nil {
		return View{}, fmt.Errorf("decoding view %q: %w", name, err)
	}
	return v, nil
}

// List returns a domain's views sorted by name.
func (s *RedisStore) List(ctx context.Context, domain string) ([]View, error) {
	all, err := s.client.HGetAll(ctx, domainKey(domain)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	out := make([]View, 0, len(all))
	for name, raw := range all {
		var v View
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decoding view %q: %w", name, err)
		}
		out = append(out, v)
	}
	sortByName(out)
	return out, nil
}

// Delete removes the named view.
func (s *RedisStore) Delete(ctx context.Context, domain, name string) error {
	n, err := s.client.HDel(ctx, domainKey(domain), name).Result()
	if err != nil {
		return fmt.Errorf("deleting view %q: %w", name, err)
	}
	if n == 0 {
		return ErrViewNotFound
	}
	return nil
}
