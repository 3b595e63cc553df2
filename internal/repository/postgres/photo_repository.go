package postgres

import (
	"context"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/jmoiron/sqlx"
)

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

// ReplaceForUser upserts each photo by its order slot and removes slots past
// the new set, all in one transaction.
func (r *photoRepository) ReplaceForUser(ctx context.Context, userID int, photos []domain.UserPhoto) error {
	return inTx(ctx, r.db, func(q queryer) error {
		upsert := `
			INSERT INTO user_photos (user_id, public_url, storage_path, photo_order, is_main, blurhash)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, photo_order) DO UPDATE SET
				public_url = EXCLUDED.public_url,
				storage_path = EXCLUDED.storage_path,
				is_main = EXCLUDED.is_main,
				blurhash = EXCLUDED.blurhash
		`
		for _, p := range photos {
			if _, err := q.ExecContext(ctx, upsert,
				userID, p.PublicURL, p.StoragePath, p.PhotoOrder, p.IsMain, p.Blurhash,
			); err != nil {
				return err
			}
		}

		_, err := q.ExecContext(ctx,
			`DELETE FROM user_photos WHERE user_id = $1 AND photo_order > $2`,
			userID, len(photos),
		)
		return err
	})
}

func (r *photoRepository) ListForUser(ctx context.Context, userID int) ([]*domain.UserPhoto, error) {
	var photos []*domain.UserPhoto
	query := `
		SELECT id, user_id, public_url, storage_path, photo_order, is_main, blurhash, created_at
		FROM user_photos
		WHERE user_id = $1
		ORDER BY photo_order
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &photos, query, userID); err != nil {
		return nil, err
	}
	return photos, nil
}
