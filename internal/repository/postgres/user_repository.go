package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, auth_user_id, phone, first_name, last_name, birth_date, gender,
	current_location, onboarding_status, last_completed_step, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.OnboardingStatus == "" {
		user.OnboardingStatus = domain.OnboardingInProgress
	}
	query := `
		INSERT INTO users (
			auth_user_id, phone, first_name, last_name, birth_date, gender,
			current_location, onboarding_status, last_completed_step
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		user.AuthUserID, user.Phone, user.FirstName, user.LastName, user.BirthDate,
		user.Gender, user.CurrentLocation, user.OnboardingStatus, user.LastCompletedStep,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_user_id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &user, query, authUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateIdentity(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, birth_date = $3, gender = $4,
		    current_location = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowContext(
		ctx, query,
		user.FirstName, user.LastName, user.BirthDate, user.Gender, user.CurrentLocation, user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) UpdateCurrentLocation(ctx context.Context, userID int, location string) error {
	query := `UPDATE users SET current_location = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, location, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrUserNotFound)
}

func (r *userRepository) UpdateOnboardingStatus(ctx context.Context, userID int, status domain.OnboardingStatus, lastStep *domain.OnboardingStep) error {
	var step *string
	if lastStep != nil {
		s := lastStep.String()
		step = &s
	}
	query := `
		UPDATE users
		SET onboarding_status = $1,
		    last_completed_step = COALESCE($2, last_completed_step),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, status, step, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrUserNotFound)
}
