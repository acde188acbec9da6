package config

import (
	"os"
	"strings"
	"sync"
)

type RedisConfig struct {
	URL       string
	KeyPrefix string
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

// LoadRedisConfig reads REDIS_URL. An empty URL keeps sessions in process memory.
func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{
			URL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "interview"),
		}
	})
	return redisConfig
}
