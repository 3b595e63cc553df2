package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "auth:otp:"

type codeRepository struct {
	client goredis.UniversalClient
}

func NewCodeRepository(client goredis.UniversalClient) repository.CodeRepository {
	return &codeRepository{client: client}
}

func codeKey(phone string) string {
	return codeKeyPrefix + phone
}

// Save replaces any pending code for the phone and resets its attempts.
func (r *codeRepository) Save(ctx context.Context, code *domain.VerificationCode, ttl time.Duration) error {
	key := codeKey(code.Phone)
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"code_hash", code.CodeHash,
			"attempts", code.Attempts,
			"expires_at", code.ExpiresAt.Unix(),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *codeRepository) Get(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	fields, err := r.client.HGetAll(ctx, codeKey(phone)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, domain.ErrCodeExpired
	}

	attempts, _ := strconv.Atoi(fields["attempts"])
	expiresAt, _ := strconv.ParseInt(fields["expires_at"], 10, 64)
	return &domain.VerificationCode{
		Phone:     phone,
		CodeHash:  fields["code_hash"],
		Attempts:  attempts,
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

// IncrementAttempts bumps the failed attempt counter of a live code.
func (r *codeRepository) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	key := codeKey(phone)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, domain.ErrCodeExpired
	}

	attempts, err := r.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return 0, err
	}
	return int(attempts), nil
}

func (r *codeRepository) Delete(ctx context.Context, phone string) error {
	return r.client.Del(ctx, codeKey(phone)).Err()
}
