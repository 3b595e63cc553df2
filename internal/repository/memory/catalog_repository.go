package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type AreaRepository struct {
	store *Store
}

func NewAreaRepository(store *Store) *AreaRepository {
	return &AreaRepository{store: store}
}

func (r *AreaRepository) ListActive(ctx context.Context) ([]*domain.Area, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var areas []*domain.Area
	for _, a := range s.db.areas {
		if a.IsActive {
			a := a
			areas = append(areas, &a)
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Region != areas[j].Region {
			return areas[i].Region < areas[j].Region
		}
		return areas[i].Name < areas[j].Name
	})
	return areas, nil
}

func (r *AreaRepository) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.db.areas {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrAreaNotFound
}

type InterestRepository struct {
	store *Store
}

func NewInterestRepository(store *Store) *InterestRepository {
	return &InterestRepository{store: store}
}

func (r *InterestRepository) ListCatalog(ctx context.Context) ([]*domain.Interest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	interests := make([]*domain.Interest, 0, len(s.db.interestCatalog))
	for _, i := range s.db.interestCatalog {
		i := i
		interests = append(interests, &i)
	}
	return interests, nil
}

func (r *InterestRepository) ReplaceForUser(ctx context.Context, userID int, ids []string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	journal(ctx, s.db.interests, userID)
	s.db.interests[userID] = append([]string(nil), ids...)
	return nil
}

func (r *InterestRepository) ListForUser(ctx context.Context, userID int) ([]string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.db.interests[userID]...), nil
}

type PromptRepository struct {
	store *Store
}

func NewPromptRepository(store *Store) *PromptRepository {
	return &PromptRepository{store: store}
}

func (r *PromptRepository) ListCatalog(ctx context.Context) ([]*domain.Prompt, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prompts []*domain.Prompt
	for _, p := range s.db.promptCatalog {
		if p.IsActive {
			p := p
			prompts = append(prompts, &p)
		}
	}
	return prompts, nil
}

func (r *PromptRepository) ReplaceForUser(ctx context.Context, userID int, prompts []domain.UserPrompt) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := make([]domain.UserPrompt, 0, len(prompts))
	for _, p := range prompts {
		p.ID = s.id()
		p.UserID = userID
		p.CreatedAt, p.UpdatedAt = now, now
		stored = append(stored, p)
	}
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].OrderIndex < stored[j].OrderIndex })
	journal(ctx, s.db.prompts, userID)
	s.db.prompts[userID] = stored
	return nil
}

func (r *PromptRepository) ListForUser(ctx context.Context, userID int) ([]*domain.UserPrompt, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompts := make([]*domain.UserPrompt, 0, len(s.db.prompts[userID]))
	for _, p := range s.db.prompts[userID] {
		p := p
		prompts = append(prompts, &p)
	}
	return prompts, nil
}
