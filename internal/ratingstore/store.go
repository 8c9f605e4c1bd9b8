package ratingstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlRating = 30 * 24 * time.Hour

// Store caches the latest observed rating per player in Redis. Best-effort:
// the watcher works without it, lookups just miss.
type Store struct {
	rdb *redis.Client
}

func NewStore(redisURL string) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for rating store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// SetRatings stores a batch of observed ratings keyed by username.
func (s *Store) SetRatings(ctx context.Context, ratings map[string]int) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("rating store not initialized")
	}
	pipe := s.rdb.Pipeline()
	for name, rating := range ratings {
		if strings.TrimSpace(name) == "" || rating <= 0 {
			continue
		}
		pipe.Set(ctx, ratingKey(name), rating, ttlRating)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Rating returns the cached rating for a username; ok is false on a miss.
func (s *Store) Rating(ctx context.Context, username string) (int, bool, error) {
	if s == nil || s.rdb == nil {
		return 0, false, fmt.Errorf("rating store not initialized")
	}
	raw, err := s.rdb.Get(ctx, ratingKey(username)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt rating for %s: %w", username, err)
	}
	return n, true, nil
}

func ratingKey(username string) string {
	return "rating:user:" + strings.ToLower(strings.TrimSpace(username))
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
