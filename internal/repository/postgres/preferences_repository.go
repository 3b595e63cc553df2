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

type preferencesRepository struct {
	db *sqlx.DB
}

func NewPreferencesRepository(db *sqlx.DB) repository.PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) UpsertDating(ctx context.Context, prefs *domain.UserDatingPreferences) error {
	query := `
		INSERT INTO user_dating_preferences (
			user_id, sexuality, relationship_type, dating_intention, smoking_preference,
			drinking_preference, children_preference, pet_preference, religion_importance,
			max_distance_km, age_range_min, age_range_max
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			sexuality = COALESCE(EXCLUDED.sexuality, user_dating_preferences.sexuality),
			relationship_type = COALESCE(EXCLUDED.relationship_type, user_dating_preferences.relationship_type),
			dating_intention = COALESCE(EXCLUDED.dating_intention, user_dating_preferences.dating_intention),
			smoking_preference = COALESCE(EXCLUDED.smoking_preference, user_dating_preferences.smoking_preference),
			drinking_preference = COALESCE(EXCLUDED.drinking_preference, user_dating_preferences.drinking_preference),
			children_preference = COALESCE(EXCLUDED.children_preference, user_dating_preferences.children_preference),
			pet_preference = COALESCE(EXCLUDED.pet_preference, user_dating_preferences.pet_preference),
			religion_importance = COALESCE(EXCLUDED.religion_importance, user_dating_preferences.religion_importance),
			max_distance_km = COALESCE(EXCLUDED.max_distance_km, user_dating_preferences.max_distance_km),
			age_range_min = COALESCE(EXCLUDED.age_range_min, user_dating_preferences.age_range_min),
			age_range_max = COALESCE(EXCLUDED.age_range_max, user_dating_preferences.age_range_max),
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		prefs.UserID, prefs.Sexuality, prefs.RelationshipType, prefs.DatingIntention,
		prefs.SmokingPreference, prefs.DrinkingPreference, prefs.ChildrenPreference,
		prefs.PetPreference, prefs.ReligionImportance, prefs.MaxDistanceKm,
		prefs.AgeRangeMin, prefs.AgeRangeMax,
	).Scan(&prefs.ID, &prefs.CreatedAt, &prefs.UpdatedAt)
}

func (r *preferencesRepository) GetDating(ctx context.Context, userID int) (*domain.UserDatingPreferences, error) {
	var prefs domain.UserDatingPreferences
	query := `
		SELECT id, user_id, sexuality, relationship_type, dating_intention, smoking_preference,
		       drinking_preference, children_preference, pet_preference, religion_importance,
		       max_distance_km, age_range_min, age_range_max, preferred_areas,
		       created_at, updated_at
		FROM user_dating_preferences WHERE user_id = $1
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&prefs.ID, &prefs.UserID, &prefs.Sexuality, &prefs.RelationshipType,
		&prefs.DatingIntention, &prefs.SmokingPreference, &prefs.DrinkingPreference,
		&prefs.ChildrenPreference, &prefs.PetPreference, &prefs.ReligionImportance,
		&prefs.MaxDistanceKm, &prefs.AgeRangeMin, &prefs.AgeRangeMax,
		pq.Array(&prefs.PreferredAreas),
		&prefs.CreatedAt, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

// SetPreferredAreas overwrites the array in one statement, creating the row
// if the user has no dating preferences yet.
func (r *preferencesRepository) SetPreferredAreas(ctx context.Context, userID int, areas []string) error {
	query := `
		INSERT INTO user_dating_preferences (user_id, preferred_areas)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_areas = EXCLUDED.preferred_areas,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID, pq.Array(areas))
	return err
}

func (r *preferencesRepository) DatingExists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_dating_preferences WHERE user_id = $1)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, userID)
	return exists, err
}

func (r *preferencesRepository) UpsertApp(ctx context.Context, prefs *domain.UserAppPreferences) error {
	query := `
		INSERT INTO user_app_preferences (
			user_id, push_notifications, email_notifications, marketing_emails, analytics_sharing
		)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			push_notifications = EXCLUDED.push_notifications,
			email_notifications = EXCLUDED.email_notifications,
			marketing_emails = EXCLUDED.marketing_emails,
			analytics_sharing = EXCLUDED.analytics_sharing,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		prefs.UserID, prefs.PushNotifications, prefs.EmailNotifications,
		prefs.MarketingEmails, prefs.AnalyticsSharing,
	).Scan(&prefs.ID, &prefs.CreatedAt, &prefs.UpdatedAt)
}

func (r *preferencesRepository) GetApp(ctx context.Context, userID int) (*domain.UserAppPreferences, error) {
	var prefs domain.UserAppPreferences
	query := `
		SELECT id, user_id, push_notifications, email_notifications, marketing_emails,
		       analytics_sharing, created_at, updated_at
		FROM user_app_preferences WHERE user_id = $1
	`
	if err := conn(ctx, r.db).GetContext(ctx, &prefs, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *preferencesRepository) AppExists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_app_preferences WHERE user_id = $1)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, userID)
	return exists, err
}
