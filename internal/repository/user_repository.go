package repository

import (
	"context"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByAuthUserID(ctx context.Context, authUserID string) (*domain.User, error)
	UpdateIdentity(ctx context.Context, user *domain.User) error
	UpdateCurrentLocation(ctx context.Context, userID int, location string) error
	UpdateOnboardingStatus(ctx context.Context, userID int, status domain.OnboardingStatus, lastStep *domain.OnboardingStep) error
}

type AuthRepository interface {
	GetOrCreateIdentity(ctx context.Context, phone string) (*domain.AuthIdentity, bool, error)
	GetIdentityByID(ctx context.Context, id string) (*domain.AuthIdentity, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
}
