package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("auth-1", nil, "Ana", nil, nil, nil, nil, domain.OnboardingInProgress, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	user := &domain.User{AuthUserID: "auth-1", FirstName: "Ana"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, domain.OnboardingInProgress, user.OnboardingStatus)
}

func TestUserRepositoryGetByAuthUserIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE auth_user_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByAuthUserID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryUpdateOnboardingStatus(t *testing.T) {
	t.Run("records last step", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		step := domain.StepGender

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(domain.OnboardingInProgress, "gender", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateOnboardingStatus(context.Background(), 3, domain.OnboardingInProgress, &step))
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(domain.OnboardingComplete, nil, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateOnboardingStatus(context.Background(), 99, domain.OnboardingComplete, nil)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthRepositoryGetOrCreateIdentity(t *testing.T) {
	now := time.Now()

	t.Run("new phone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAuthRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auth_identities")).
			WithArgs(sqlmock.AnyArg(), "+15550001111").
			WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "created_at"}).
				AddRow("0b6f7c9e-0000-4000-8000-000000000001", "+15550001111", now))

		identity, created, err := repo.GetOrCreateIdentity(context.Background(), "+15550001111")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "+15550001111", identity.Phone)
	})

	t.Run("existing phone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAuthRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auth_identities")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "created_at"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, phone, created_at FROM auth_identities WHERE phone = $1")).
			WithArgs("+15550001111").
			WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "created_at"}).
				AddRow("0b6f7c9e-0000-4000-8000-000000000001", "+15550001111", now))

		identity, created, err := repo.GetOrCreateIdentity(context.Background(), "+15550001111")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "0b6f7c9e-0000-4000-8000-000000000001", identity.ID)
	})
}

func TestSessionRepositoryGetByTokenNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE token_hash = $1")).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByToken(context.Background(), "hash")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestProfileRepositoryUpdateCurrentLocationMissingProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_profiles")).
		WithArgs("district-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCurrentLocation(context.Background(), 5, "district-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepositoryExistsForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM user_profiles WHERE user_id = $1)")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForUser(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInterestRepositoryReplaceForUser(t *testing.T) {
	t.Run("reconciles in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewInterestRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_interests")).
			WithArgs(5, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_interests")).
			WithArgs(5, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceForUser(context.Background(), 5, []string{"a", "b", "c"}))
	})

	t.Run("rolls back when insert fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewInterestRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_interests")).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_interests")).
			WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		err := repo.ReplaceForUser(context.Background(), 5, []string{"a", "b", "c"})
		assert.EqualError(t, err, "fk violation")
	})
}

func TestPhotoRepositoryJoinsOuterTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTxManager(db)
	photos := NewPhotoRepository(db)
	users := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_photos")).
		WithArgs(5, "https://cdn/1.jpg", "user-photos/a/1.jpg", 1, true, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_photos WHERE user_id = $1 AND photo_order > $2")).
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(domain.OnboardingInProgress, "photos", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	step := domain.StepPhotos
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := photos.ReplaceForUser(ctx, 5, []domain.UserPhoto{{
			PublicURL: "https://cdn/1.jpg", StoragePath: "user-photos/a/1.jpg", PhotoOrder: 1, IsMain: true,
		}}); err != nil {
			return err
		}
		return users.UpdateOnboardingStatus(ctx, 5, domain.OnboardingInProgress, &step)
	})
	require.NoError(t, err)
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSavepointKeepsTransactionUsable(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTxManager(db)
	profiles := NewProfileRepository(db)
	users := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_profiles")).
		WithArgs("khamovniki", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SAVEPOINT sp_best_effort")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET current_location")).
		WithArgs("Khamovniki", 5).
		WillReturnError(errors.New("value too long"))
	mock.ExpectExec(regexp.QuoteMeta("ROLLBACK TO SAVEPOINT sp_best_effort")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(domain.OnboardingInProgress, "location", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := profiles.UpdateCurrentLocation(ctx, 5, "khamovniki"); err != nil {
			return err
		}
		spErr := tx.WithinSavepoint(ctx, func(ctx context.Context) error {
			return users.UpdateCurrentLocation(ctx, 5, "Khamovniki")
		})
		assert.EqualError(t, spErr, "value too long")

		step := domain.StepLocation
		return users.UpdateOnboardingStatus(ctx, 5, domain.OnboardingInProgress, &step)
	})
	require.NoError(t, err)
}

func TestSavepointReleasedOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTxManager(db)
	users := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SAVEPOINT sp_best_effort")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET current_location")).
		WithArgs("Arbat", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("RELEASE SAVEPOINT sp_best_effort")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinSavepoint(ctx, func(ctx context.Context) error {
			return users.UpdateCurrentLocation(ctx, 5, "Arbat")
		})
	})
	require.NoError(t, err)
}

func TestAreaRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAreaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM areas WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrAreaNotFound)
}

func TestPromptRepositoryListForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPromptRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_prompts")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "prompt_id", "answer", "order_index", "created_at", "updated_at"}).
			AddRow(1, 5, "p1", "Hiking", 1, now, now).
			AddRow(2, 5, "p2", "Coffee", 2, now, now))

	prompts, err := repo.ListForUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "Coffee", prompts[1].Answer)
}
