package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
)

const (
	defaultRedisHost = "127.0.0.1"
	defaultRedisPort = "6379"
	redisDialTimeout = 2 * time.Second
	redisIOTimeout   = time.Second
	redisPingTimeout = 5 * time.Second
)

// dialRedis connects with short socket timeouts and pings the server.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("dashboard cache connected")
	return client, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host, port := cfg.RedisHost, cfg.RedisPort
		if host == "" {
			host = defaultRedisHost
		}
		if port == "" {
			port = defaultRedisPort
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisIOTimeout
	opts.WriteTimeout = redisIOTimeout
	return opts, nil
}

// userViewKeys walks every cached view under a user prefix.
func userViewKeys(ctx context.Context, client *redis.Client, prefix string) ([]string, error) {
	var keys []string
	iter := client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	return keys, nil
}

// unlinkViews drops keys in fixed-size UNLINK calls.
func unlinkViews(ctx context.Context, client *redis.Client, keys []string) error {
	for _, batch := range batches(keys, scanBatchSize) {
		if err := client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
	}
	return nil
}

func batches(keys []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var out [][]string
	for len(keys) > size {
		out = append(out, keys[:size:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		out = append(out, keys)
	}
	return out
}
