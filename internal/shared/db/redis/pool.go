package redis

import (
	"fmt"
	"time"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/garyburd/redigo/redis"
)

func GetPool(cfg config.Config) (*redis.Pool, error) {
	redisURL, err := GetURL(cfg)
	if err != nil {
		return nil, err
	}

	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		TestOnBorrow: func(c redis.Conn, _ time.Time) error {
			_, pingErr := c.Do("PING")
			return pingErr
		},
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(redisURL)
		},
	}, nil
}

func GetURL(cfg config.Config) (string, error) {
	if redisURL := cfg.GetString("REDIS_URL"); redisURL != "" {
		return redisURL, nil
	}

	host := cfg.GetString("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := cfg.GetInt("REDIS_PORT", 6379)

	if password := cfg.GetString("REDIS_PASSWORD"); password != "" {
		return fmt.Sprintf("redis://h:%s@%s:%d", password, host, port), nil
	}

	return fmt.Sprintf("redis://%s:%d", host, port), nil
}
