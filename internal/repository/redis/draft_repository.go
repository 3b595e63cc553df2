package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "onboarding:session:"

type draftRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewDraftRepository stores onboarding sessions as JSON. Every save refreshes
// the TTL, so abandoned sessions expire ttl after their last step.
func NewDraftRepository(client goredis.UniversalClient, ttl time.Duration) repository.DraftRepository {
	return &draftRepository{client: client, ttl: ttl}
}

func draftKey(authUserID string) string {
	return draftKeyPrefix + authUserID
}

func (r *draftRepository) Get(ctx context.Context, authUserID string) (*domain.OnboardingSession, error) {
	data, err := r.client.Get(ctx, draftKey(authUserID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrOnboardingNotStarted
		}
		return nil, err
	}

	var session domain.OnboardingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode onboarding session: %w", err)
	}
	return &session, nil
}

func (r *draftRepository) Save(ctx context.Context, session *domain.OnboardingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding session: %w", err)
	}
	return r.client.Set(ctx, draftKey(session.AuthUserID), data, r.ttl).Err()
}

func (r *draftRepository) Delete(ctx context.Context, authUserID string) error {
	return r.client.Del(ctx, draftKey(authUserID)).Err()
}
