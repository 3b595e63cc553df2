package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

// DraftRepository keeps onboarding sessions as JSON so callers never share
// memory with the stored copy.
type DraftRepository struct {
	store *Store
	ttl   time.Duration
}

func NewDraftRepository(store *Store, ttl time.Duration) *DraftRepository {
	return &DraftRepository{store: store, ttl: ttl}
}

func (r *DraftRepository) Get(ctx context.Context, authUserID string) (*domain.OnboardingSession, error) {
	s := r.store
	s.mu.RLock()
	entry, ok := s.drafts[authUserID]
	now := s.now()
	s.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)) {
		return nil, domain.ErrOnboardingNotStarted
	}

	var session domain.OnboardingSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode onboarding session: %w", err)
	}
	return &session, nil
}

func (r *DraftRepository) Save(ctx context.Context, session *domain.OnboardingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding session: %w", err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := expiring{data: data}
	if r.ttl > 0 {
		entry.expiresAt = s.now().Add(r.ttl)
	}
	s.drafts[session.AuthUserID] = entry
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, authUserID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, authUserID)
	return nil
}

type CodeRepository struct {
	store *Store
}

func NewCodeRepository(store *Store) *CodeRepository {
	return &CodeRepository{store: store}
}

func (r *CodeRepository) Save(ctx context.Context, code *domain.VerificationCode, ttl time.Duration) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[code.Phone] = codeEntry{code: *code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (r *CodeRepository) live(phone string) (codeEntry, bool) {
	entry, ok := r.store.codes[phone]
	if !ok || !r.store.now().Before(entry.expiresAt) {
		return codeEntry{}, false
	}
	return entry, true
}

func (r *CodeRepository) Get(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := r.live(phone)
	if !ok {
		return nil, domain.ErrCodeExpired
	}
	code := entry.code
	return &code, nil
}

func (r *CodeRepository) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := r.live(phone)
	if !ok {
		return 0, domain.ErrCodeExpired
	}
	entry.code.Attempts++
	s.codes[phone] = entry
	return entry.code.Attempts, nil
}

func (r *CodeRepository) Delete(ctx context.Context, phone string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, phone)
	return nil
}
