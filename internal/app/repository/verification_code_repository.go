package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rsharma/bazario-backend/pkg/logger"
)

// VerificationCode is a one-time login code issued to an email or phone.
// Codes live in Redis under the target's key, newest first; the key expires
// with the newest code, so stale codes never accumulate.
type VerificationCode struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its expiry.
func (v VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

type VerificationCodeRepository interface {
	// Push prepends a code for target and refreshes the key TTL.
	Push(ctx context.Context, target string, code VerificationCode, ttl time.Duration) error
	// List returns all live codes for target, newest first.
	List(ctx context.Context, target string) ([]VerificationCode, error)
	// Purge removes every code for the given targets.
	Purge(ctx context.Context, targets ...string) error
}

type verificationCodeRepository struct {
	client *redis.Client
}

func NewVerificationCodeRepository(client *redis.Client) VerificationCodeRepository {
	return &verificationCodeRepository{client: client}
}

func codeKey(target string) string {
	return fmt.Sprintf("otp:%s", target)
}

func (r *verificationCodeRepository) Push(ctx context.Context, target string, code VerificationCode, ttl time.Duration) error {
	logger.Debug("Storing verification code in redis", map[string]interface{}{
		"target": target,
		"ttl":    ttl.String(),
	})

	payload, err := json.Marshal(code)
	if err != nil {
		return err
	}

	key := codeKey(target)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to store verification code in redis", err, map[string]interface{}{
			"target": target,
		})
		return err
	}

	return nil
}

func (r *verificationCodeRepository) List(ctx context.Context, target string) ([]VerificationCode, error) {
	logger.Debug("Listing verification codes from redis", map[string]interface{}{
		"target": target,
	})

	entries, err := r.client.LRange(ctx, codeKey(target), 0, -1).Result()
	if err != nil {
		logger.Error("Failed to list verification codes from redis", err, map[string]interface{}{
			"target": target,
		})
		return nil, err
	}

	codes := make([]VerificationCode, 0, len(entries))
	for _, entry := range entries {
		var code VerificationCode
		if err := json.Unmarshal([]byte(entry), &code); err != nil {
			logger.Warn("Skipping malformed verification code entry", map[string]interface{}{
				"target": target,
			})
			continue
		}
		codes = append(codes, code)
	}

	return codes, nil
}

func (r *verificationCodeRepository) Purge(ctx context.Context, targets ...string) error {
	if len(targets) == 0 {
		return nil
	}

	keys := make([]string, len(targets))
	for i, target := range targets {
		keys[i] = codeKey(target)
	}

	logger.Debug("Purging verification codes from redis", map[string]interface{}{
		"targets": targets,
	})

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error("Failed to purge verification codes from redis", err, map[string]interface{}{
			"targets": targets,
		})
		return err
	}

	return nil
}
