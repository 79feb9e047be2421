package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to the unified AppError type as persistence failures.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(err, KindPersistence, RedisNotFoundMessage)
	}

	return New(err, KindPersistence, RedisErrorMessage)
}
