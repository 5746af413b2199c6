package cache

import (
	"encoding/json"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
)

const keyPrefix = "cache/"

type Redis struct {
	pool *redis.Pool
}

func NewRedis(pool *redis.Pool) *Redis {
	return &Redis{pool: pool}
}

func (r Redis) Get(key string, dest interface{}) error {
	key = keyPrefix + key

	conn := r.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if err == redis.ErrNil {
			return nil // cache miss, dest is left untouched
		}
		return errors.Wrapf(err, "error getting key %s", key)
	}

	if err = json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, "can't unmarshal json from redis")
	}

	return nil
}

func (r Redis) Set(key string, expireTimeout time.Duration, value interface{}) error {
	key = keyPrefix + key

	valueBytes, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "can't json marshal value")
	}

	conn := r.pool.Get()
	defer conn.Close()

	if _, err = conn.Do("SETEX", key, int(expireTimeout/time.Second), valueBytes); err != nil {
		return errors.Wrapf(err, "error setting key %s", key)
	}

	return nil
}
