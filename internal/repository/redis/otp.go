package redis

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/craftlink/auth-server/internal/model"
)

var _ model.CodeStore = (*CodeRepository)(nil)

const (
	codeKeyPrefix     = "otp:code:"
	cooldownKeyPrefix = "otp:cooldown:"

	consumeRetries = 4
)

// CodeRepository stores one-time phone codes in Redis with per-key
// expiry. Consume runs under WATCH so compare-and-delete is atomic.
type CodeRepository struct {
	client *redis.Client
}

func NewCodeRepository(client *redis.Client) *CodeRepository {
	return &CodeRepository{
		client: client,
	}
}

func codeKey(phoneNumber string) string {
	return codeKeyPrefix + phoneNumber
}

func cooldownKey(phoneNumber string) string {
	return cooldownKeyPrefix + phoneNumber
}

func (r *CodeRepository) Save(ctx context.Context, phoneNumber, code string, ttl time.Duration) error {
	entry := model.CodeEntry{Code: code}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode code entry: %w", err)
	}

	if err := r.client.Set(ctx, codeKey(phoneNumber), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}

	return nil
}

func (r *CodeRepository) Consume(ctx context.Context, phoneNumber, presented string, maxAttempts int) error {
	key := codeKey(phoneNumber)

	for i := 0; i < consumeRetries; i++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return model.ErrInvalidToken
				}
				return err
			}

			var entry model.CodeEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				return fmt.Errorf("failed to decode code entry: %w", err)
			}

			if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(presented)) == 1 {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				return err
			}

			entry.Attempts++
			if entry.Attempts >= maxAttempts {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return model.ErrInvalidToken
			}

			ttl, err := tx.TTL(ctx, key).Result()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				return model.ErrInvalidToken
			}

			updated, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("failed to encode code entry: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, ttl)
				return nil
			})
			if err != nil {
				return err
			}
			return model.ErrInvalidToken
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		return nil
	}

	return fmt.Errorf("failed to consume code: too much contention")
}

func (r *CodeRepository) Delete(ctx context.Context, phoneNumber string) error {
	if err := r.client.Del(ctx, codeKey(phoneNumber)).Err(); err != nil {
		return fmt.Errorf("failed to delete code: %w", err)
	}
	return nil
}

func (r *CodeRepository) MarkCooldown(ctx context.Context, phoneNumber string, d time.Duration) (bool, error) {
	set, err := r.client.SetNX(ctx, cooldownKey(phoneNumber), "1", d).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark cooldown: %w", err)
	}
	return set, nil
}
