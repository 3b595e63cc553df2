package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

// DraftRepository holds in-flight onboarding sessions between requests.
type DraftRepository interface {
	Get(ctx context.Context, authUserID string) (*domain.OnboardingSession, error)
	Save(ctx context.Context, session *domain.OnboardingSession) error
	Delete(ctx context.Context, authUserID string) error
}

type CodeRepository interface {
	Save(ctx context.Context, code *domain.VerificationCode, ttl time.Duration) error
	Get(ctx context.Context, phone string) (*domain.VerificationCode, error)
	IncrementAttempts(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
}
