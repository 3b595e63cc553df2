package repository

import (
	"context"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type ProfileRepository interface {
	// CreateEmpty inserts a bare profile row for the user if none exists.
	CreateEmpty(ctx context.Context, userID int) error
	GetByUserID(ctx context.Context, userID int) (*domain.UserProfile, error)
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	UpdateCurrentLocation(ctx context.Context, userID int, districtID string) error
	UpdatePreferredAreas(ctx context.Context, userID int, areas []string) error
	ExistsForUser(ctx context.Context, userID int) (bool, error)
}

type PreferencesRepository interface {
	UpsertDating(ctx context.Context, prefs *domain.UserDatingPreferences) error
	GetDating(ctx context.Context, userID int) (*domain.UserDatingPreferences, error)
	SetPreferredAreas(ctx context.Context, userID int, areas []string) error
	DatingExists(ctx context.Context, userID int) (bool, error)

	UpsertApp(ctx context.Context, prefs *domain.UserAppPreferences) error
	GetApp(ctx context.Context, userID int) (*domain.UserAppPreferences, error)
	AppExists(ctx context.Context, userID int) (bool, error)
}

type PhotoRepository interface {
	ReplaceForUser(ctx context.Context, userID int, photos []domain.UserPhoto) error
	ListForUser(ctx context.Context, userID int) ([]*domain.UserPhoto, error)
}
