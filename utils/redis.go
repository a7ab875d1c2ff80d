package utils

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ihost-app/ihost-backend/config"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects the shared client used for live notification fan-out
// and rate limit counters.
func InitRedis(cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		return err
	}

	RedisClient = client
	log.Println("✅ Redis connected")
	return nil
}
