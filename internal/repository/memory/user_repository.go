package memory

import (
	"context"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.db.users {
		if u.AuthUserID == user.AuthUserID {
			return domain.ErrInvalidInput
		}
	}
	if user.OnboardingStatus == "" {
		user.OnboardingStatus = domain.OnboardingInProgress
	}
	user.ID = s.id()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	journal(ctx, s.db.users, user.ID)
	s.db.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.db.users {
		if u.AuthUserID == authUserID {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) UpdateIdentity(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.db.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.BirthDate = user.BirthDate
	u.Gender = user.Gender
	u.CurrentLocation = user.CurrentLocation
	u.UpdatedAt = s.now()
	journal(ctx, s.db.users, u.ID)
	s.db.users[u.ID] = u
	user.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *UserRepository) UpdateCurrentLocation(ctx context.Context, userID int, location string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.db.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CurrentLocation = &location
	u.UpdatedAt = s.now()
	journal(ctx, s.db.users, userID)
	s.db.users[userID] = u
	return nil
}

func (r *UserRepository) UpdateOnboardingStatus(ctx context.Context, userID int, status domain.OnboardingStatus, lastStep *domain.OnboardingStep) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.db.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.OnboardingStatus = status
	if lastStep != nil {
		step := lastStep.String()
		u.LastCompletedStep = &step
	}
	u.UpdatedAt = s.now()
	journal(ctx, s.db.users, userID)
	s.db.users[userID] = u
	return nil
}

type AuthRepository struct {
	store *Store
}

func NewAuthRepository(store *Store) *AuthRepository {
	return &AuthRepository{store: store}
}

func (r *AuthRepository) GetOrCreateIdentity(ctx context.Context, phone string) (*domain.AuthIdentity, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.db.identityByPhone[phone]; ok {
		identity := s.db.identities[id]
		return &identity, false, nil
	}
	identity := domain.AuthIdentity{ID: uuid.NewString(), Phone: phone, CreatedAt: s.now()}
	journal(ctx, s.db.identities, identity.ID)
	s.db.identities[identity.ID] = identity
	journal(ctx, s.db.identityByPhone, phone)
	s.db.identityByPhone[phone] = identity.ID
	return &identity, true, nil
}

func (r *AuthRepository) GetIdentityByID(ctx context.Context, id string) (*domain.AuthIdentity, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.db.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return &identity, nil
}

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	session.ID = s.id()
	session.CreatedAt = s.now()
	journal(ctx, s.db.sessions, session.Token)
	s.db.sessions[session.Token] = *session
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.db.sessions[tokenHash]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.db.sessions[tokenHash]; !ok {
		return domain.ErrSessionNotFound
	}
	journal(ctx, s.db.sessions, tokenHash)
	delete(s.db.sessions, tokenHash)
	return nil
}
