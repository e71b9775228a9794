// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
)

// RedisStateRepository implements [StateRepository] using Redis.
type RedisStateRepository struct {
	client *redis.Client
}

// NewStateRepository creates a new Redis-backed StateRepository.
func NewStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

/*
Put stores a login nonce with a TTL.

Parameters:
  - context: context.Context
  - nonce: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (repository *RedisStateRepository) Put(context context.Context, nonce string, ttl time.Duration) error {
	key := constants.RedisPrefixOAuthState + nonce

	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_oauth_state_put_failed: %w", err)
	}

	return nil
}

/*
Consume atomically reads and deletes a login nonce.

Description: GETDEL guarantees that two callbacks racing with the same state
cannot both succeed.

Parameters:
  - context: context.Context
  - nonce: string

Returns:
  - error: apperr.Unauthorized when the nonce is unknown, used or expired
*/
func (repository *RedisStateRepository) Consume(context context.Context, nonce string) error {
	key := constants.RedisPrefixOAuthState + nonce

	if err := repository.client.GetDel(context, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.Unauthorized("Your login link expired, please try again")
		}
		return fmt.Errorf("redis_oauth_state_consume_failed: %w", err)
	}

	return nil
}
