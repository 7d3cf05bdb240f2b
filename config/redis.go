package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RedisClient *redis.Client

// ConnectRedis returns nil when Redis is not configured or unreachable;
// callers run without the product cache in that case.
func ConnectRedis(cfg *Config) *redis.Client {
	var opt *redis.Options
	switch {
	case cfg.RedisURL != "":
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("failed to parse REDIS_URL, running without cache", zap.Error(err))
			return nil
		}
		opt = parsed
	case cfg.RedisAddr != "":
		opt = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	default:
		zap.L().Info("redis not configured, running without cache")
		return nil
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis connection failed, running without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	RedisClient = client
	zap.L().Info("redis connected", zap.String("addr", opt.Addr))
	return client
}

func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}
