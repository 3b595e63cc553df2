package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateEmpty(ctx context.Context, userID int) error {
	query := `
		INSERT INTO user_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	query := `
		SELECT id, user_id, bio, height, hometown, work, education, religion,
		       drinking, smoking, pronouns, current_location, preferred_dating_areas,
		       created_at, updated_at
		FROM user_profiles WHERE user_id = $1
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Bio, &profile.Height, &profile.Hometown,
		&profile.Work, &profile.Education, &profile.Religion, &profile.Drinking,
		&profile.Smoking, &profile.Pronouns, &profile.CurrentLocation,
		pq.Array(&profile.PreferredDatingAreas),
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the extended profile fields. Nil fields keep what is stored.
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, bio, height, hometown, work, education, religion, drinking, smoking, pronouns
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = COALESCE(EXCLUDED.bio, user_profiles.bio),
			height = COALESCE(EXCLUDED.height, user_profiles.height),
			hometown = COALESCE(EXCLUDED.hometown, user_profiles.hometown),
			work = COALESCE(EXCLUDED.work, user_profiles.work),
			education = COALESCE(EXCLUDED.education, user_profiles.education),
			religion = COALESCE(EXCLUDED.religion, user_profiles.religion),
			drinking = COALESCE(EXCLUDED.drinking, user_profiles.drinking),
			smoking = COALESCE(EXCLUDED.smoking, user_profiles.smoking),
			pronouns = COALESCE(EXCLUDED.pronouns, user_profiles.pronouns),
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		profile.UserID, profile.Bio, profile.Height, profile.Hometown, profile.Work,
		profile.Education, profile.Religion, profile.Drinking, profile.Smoking, profile.Pronouns,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) UpdateCurrentLocation(ctx context.Context, userID int, districtID string) error {
	query := `
		UPDATE user_profiles
		SET current_location = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, districtID, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrProfileNotFound)
}

func (r *profileRepository) UpdatePreferredAreas(ctx context.Context, userID int, areas []string) error {
	query := `
		UPDATE user_profiles
		SET preferred_dating_areas = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, pq.Array(areas), userID)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrProfileNotFound)
}

func (r *profileRepository) ExistsForUser(ctx context.Context, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE user_id = $1)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, userID)
	return exists, err
}
