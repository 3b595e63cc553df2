package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type ProfileRepository struct {
	store *Store
}

func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.db.profiles[userID]; ok {
		return nil
	}
	now := s.now()
	journal(ctx, s.db.profiles, userID)
	s.db.profiles[userID] = domain.UserProfile{ID: s.id(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (*domain.UserProfile, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.PreferredDatingAreas = append([]string(nil), p.PreferredDatingAreas...)
	return &p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.db.profiles[profile.UserID]
	if !ok {
		p = domain.UserProfile{ID: s.id(), UserID: profile.UserID, CreatedAt: now}
	}
	coalesce(&p.Bio, profile.Bio)
	coalesce(&p.Height, profile.Height)
	coalesce(&p.Hometown, profile.Hometown)
	coalesce(&p.Work, profile.Work)
	coalesce(&p.Education, profile.Education)
	coalesce(&p.Religion, profile.Religion)
	coalesce(&p.Drinking, profile.Drinking)
	coalesce(&p.Smoking, profile.Smoking)
	coalesce(&p.Pronouns, profile.Pronouns)
	p.UpdatedAt = now
	journal(ctx, s.db.profiles, p.UserID)
	s.db.profiles[p.UserID] = p

	profile.ID, profile.CreatedAt, profile.UpdatedAt = p.ID, p.CreatedAt, p.UpdatedAt
	return nil
}

func (r *ProfileRepository) UpdateCurrentLocation(ctx context.Context, userID int, districtID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.CurrentLocation = &districtID
	p.UpdatedAt = s.now()
	journal(ctx, s.db.profiles, userID)
	s.db.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) UpdatePreferredAreas(ctx context.Context, userID int, areas []string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.PreferredDatingAreas = append([]string(nil), areas...)
	p.UpdatedAt = s.now()
	journal(ctx, s.db.profiles, userID)
	s.db.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) ExistsForUser(ctx context.Context, userID int) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.db.profiles[userID]
	return ok, nil
}

type PreferencesRepository struct {
	store *Store
}

func NewPreferencesRepository(store *Store) *PreferencesRepository {
	return &PreferencesRepository{store: store}
}

func (r *PreferencesRepository) UpsertDating(ctx context.Context, prefs *domain.UserDatingPreferences) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.db.dating[prefs.UserID]
	if !ok {
		p = domain.UserDatingPreferences{ID: s.id(), UserID: prefs.UserID, CreatedAt: now}
	}
	coalesce(&p.Sexuality, prefs.Sexuality)
	coalesce(&p.RelationshipType, prefs.RelationshipType)
	coalesce(&p.DatingIntention, prefs.DatingIntention)
	coalesce(&p.SmokingPreference, prefs.SmokingPreference)
	coalesce(&p.DrinkingPreference, prefs.DrinkingPreference)
	coalesce(&p.ChildrenPreference, prefs.ChildrenPreference)
	coalesce(&p.PetPreference, prefs.PetPreference)
	coalesce(&p.ReligionImportance, prefs.ReligionImportance)
	coalesce(&p.MaxDistanceKm, prefs.MaxDistanceKm)
	coalesce(&p.AgeRangeMin, prefs.AgeRangeMin)
	coalesce(&p.AgeRangeMax, prefs.AgeRangeMax)
	p.UpdatedAt = now
	journal(ctx, s.db.dating, p.UserID)
	s.db.dating[p.UserID] = p

	prefs.ID, prefs.CreatedAt, prefs.UpdatedAt = p.ID, p.CreatedAt, p.UpdatedAt
	return nil
}

func (r *PreferencesRepository) GetDating(ctx context.Context, userID int) (*domain.UserDatingPreferences, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.db.dating[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.PreferredAreas = append([]string(nil), p.PreferredAreas...)
	return &p, nil
}

func (r *PreferencesRepository) SetPreferredAreas(ctx context.Context, userID int, areas []string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.db.dating[userID]
	if !ok {
		p = domain.UserDatingPreferences{ID: s.id(), UserID: userID, CreatedAt: now}
	}
	p.PreferredAreas = append([]string(nil), areas...)
	p.UpdatedAt = now
	journal(ctx, s.db.dating, userID)
	s.db.dating[userID] = p
	return nil
}

func (r *PreferencesRepository) DatingExists(ctx context.Context, userID int) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.db.dating[userID]
	return ok, nil
}

func (r *PreferencesRepository) UpsertApp(ctx context.Context, prefs *domain.UserAppPreferences) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.db.app[prefs.UserID]
	if !ok {
		p = domain.UserAppPreferences{ID: s.id(), UserID: prefs.UserID, CreatedAt: now}
	}
	p.PushNotifications = prefs.PushNotifications
	p.EmailNotifications = prefs.EmailNotifications
	p.MarketingEmails = prefs.MarketingEmails
	p.AnalyticsSharing = prefs.AnalyticsSharing
	p.UpdatedAt = now
	journal(ctx, s.db.app, p.UserID)
	s.db.app[p.UserID] = p

	prefs.ID, prefs.CreatedAt, prefs.UpdatedAt = p.ID, p.CreatedAt, p.UpdatedAt
	return nil
}

func (r *PreferencesRepository) GetApp(ctx context.Context, userID int) (*domain.UserAppPreferences, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.db.app[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *PreferencesRepository) AppExists(ctx context.Context, userID int) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.db.app[userID]
	return ok, nil
}

type PhotoRepository struct {
	store *Store
}

func NewPhotoRepository(store *Store) *PhotoRepository {
	return &PhotoRepository{store: store}
}

func (r *PhotoRepository) ReplaceForUser(ctx context.Context, userID int, photos []domain.UserPhoto) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := make([]domain.UserPhoto, 0, len(photos))
	for _, p := range photos {
		p.ID = s.id()
		p.UserID = userID
		p.CreatedAt = now
		stored = append(stored, p)
	}
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].PhotoOrder < stored[j].PhotoOrder })
	journal(ctx, s.db.photos, userID)
	s.db.photos[userID] = stored
	return nil
}

func (r *PhotoRepository) ListForUser(ctx context.Context, userID int) ([]*domain.UserPhoto, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	photos := make([]*domain.UserPhoto, 0, len(s.db.photos[userID]))
	for _, p := range s.db.photos[userID] {
		p := p
		photos = append(photos, &p)
	}
	return photos, nil
}

func coalesce[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
