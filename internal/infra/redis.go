package infra

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// InitRedis accepts either a redis:// URL or a bare host:port address.
// password and db override whatever the URL carries when set.
func InitRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	opts, err := RedisOptions(addr, password, db)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	log.Printf("Connected to Redis at %s", opts.Addr)
	return client, nil
}

func RedisOptions(addr, password string, db int) (*redis.Options, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	var opts *redis.Options
	if hasScheme(addr) {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return opts, nil
}

func hasScheme(addr string) bool {
	for _, prefix := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(addr, prefix) {
			return true
		}
	}
	return false
}
