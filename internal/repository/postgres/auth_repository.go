package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type authRepository struct {
	db *sqlx.DB
}

func NewAuthRepository(db *sqlx.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

// GetOrCreateIdentity returns the identity for phone, creating it on first
// verification. The bool reports whether it was created.
func (r *authRepository) GetOrCreateIdentity(ctx context.Context, phone string) (*domain.AuthIdentity, bool, error) {
	var identity domain.AuthIdentity
	query := `
		INSERT INTO auth_identities (id, phone)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO NOTHING
		RETURNING id, phone, created_at
	`
	err := conn(ctx, r.db).GetContext(ctx, &identity, query, uuid.NewString(), phone)
	if err == nil {
		return &identity, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	// Conflict: the phone already has an identity.
	if err := conn(ctx, r.db).GetContext(ctx, &identity,
		`SELECT id, phone, created_at FROM auth_identities WHERE phone = $1`, phone); err != nil {
		return nil, false, err
	}
	return &identity, false, nil
}

func (r *authRepository) GetIdentityByID(ctx context.Context, id string) (*domain.AuthIdentity, error) {
	var identity domain.AuthIdentity
	query := `SELECT id, phone, created_at FROM auth_identities WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &identity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (auth_user_id, token_hash, device_info, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		session.AuthUserID, session.Token, session.DeviceInfo, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *sessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	query := `
		SELECT id, auth_user_id, token_hash, device_info, ip_address, expires_at, created_at
		FROM sessions WHERE token_hash = $1
	`
	if err := conn(ctx, r.db).GetContext(ctx, &session, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrSessionNotFound)
}
