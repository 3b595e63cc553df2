package repository

import (
	"context"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type AreaRepository interface {
	ListActive(ctx context.Context) ([]*domain.Area, error)
	GetByID(ctx context.Context, id string) (*domain.Area, error)
}

type InterestRepository interface {
	ListCatalog(ctx context.Context) ([]*domain.Interest, error)
	// ReplaceForUser makes the user's interest set exactly ids.
	ReplaceForUser(ctx context.Context, userID int, ids []string) error
	ListForUser(ctx context.Context, userID int) ([]string, error)
}

type PromptRepository interface {
	ListCatalog(ctx context.Context) ([]*domain.Prompt, error)
	ReplaceForUser(ctx context.Context, userID int, prompts []domain.UserPrompt) error
	ListForUser(ctx context.Context, userID int) ([]*domain.UserPrompt, error)
}
