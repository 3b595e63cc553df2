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

type areaRepository struct {
	db *sqlx.DB
}

func NewAreaRepository(db *sqlx.DB) repository.AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) ListActive(ctx context.Context) ([]*domain.Area, error) {
	var areas []*domain.Area
	query := `
		SELECT id, name, region, is_active, created_at
		FROM areas
		WHERE is_active = true
		ORDER BY region, name
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &areas, query); err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *areaRepository) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	var area domain.Area
	query := `SELECT id, name, region, is_active, created_at FROM areas WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &area, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}

type interestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) repository.InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) ListCatalog(ctx context.Context) ([]*domain.Interest, error) {
	var interests []*domain.Interest
	query := `SELECT id, name, icon, category FROM interests ORDER BY category NULLS LAST, name`
	if err := conn(ctx, r.db).SelectContext(ctx, &interests, query); err != nil {
		return nil, err
	}
	return interests, nil
}

// ReplaceForUser reconciles the stored set with ids: rows outside the set are
// removed and missing ones inserted. The user never has an empty set between
// the two statements because both run in one transaction.
func (r *interestRepository) ReplaceForUser(ctx context.Context, userID int, ids []string) error {
	return inTx(ctx, r.db, func(q queryer) error {
		if _, err := q.ExecContext(ctx,
			`DELETE FROM user_interests WHERE user_id = $1 AND NOT (interest_id = ANY($2::uuid[]))`,
			userID, pq.Array(ids),
		); err != nil {
			return err
		}

		_, err := q.ExecContext(ctx, `
			INSERT INTO user_interests (user_id, interest_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT (user_id, interest_id) DO NOTHING
		`, userID, pq.Array(ids))
		return err
	})
}

func (r *interestRepository) ListForUser(ctx context.Context, userID int) ([]string, error) {
	var ids []string
	query := `SELECT interest_id FROM user_interests WHERE user_id = $1 ORDER BY created_at, interest_id`
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}
	return ids, nil
}

type promptRepository struct {
	db *sqlx.DB
}

func NewPromptRepository(db *sqlx.DB) repository.PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) ListCatalog(ctx context.Context) ([]*domain.Prompt, error) {
	var prompts []*domain.Prompt
	query := `
		SELECT id, question, category, is_active, created_at
		FROM prompts
		WHERE is_active = true
		ORDER BY category, question
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &prompts, query); err != nil {
		return nil, err
	}
	return prompts, nil
}

// ReplaceForUser upserts answers by slot and drops slots past the new set.
func (r *promptRepository) ReplaceForUser(ctx context.Context, userID int, prompts []domain.UserPrompt) error {
	return inTx(ctx, r.db, func(q queryer) error {
		upsert := `
			INSERT INTO user_prompts (user_id, prompt_id, answer, order_index)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, order_index) DO UPDATE SET
				prompt_id = EXCLUDED.prompt_id,
				answer = EXCLUDED.answer,
				updated_at = CURRENT_TIMESTAMP
		`
		for _, p := range prompts {
			if _, err := q.ExecContext(ctx, upsert, userID, p.PromptID, p.Answer, p.OrderIndex); err != nil {
				return err
			}
		}

		_, err := q.ExecContext(ctx,
			`DELETE FROM user_prompts WHERE user_id = $1 AND order_index > $2`,
			userID, len(prompts),
		)
		return err
	})
}

func (r *promptRepository) ListForUser(ctx context.Context, userID int) ([]*domain.UserPrompt, error) {
	var prompts []*domain.UserPrompt
	query := `
		SELECT id, user_id, prompt_id, answer, order_index, created_at, updated_at
		FROM user_prompts
		WHERE user_id = $1
		ORDER BY order_index
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &prompts, query, userID); err != nil {
		return nil, err
	}
	return prompts, nil
}
