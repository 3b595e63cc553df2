package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/gemini"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"go.uber.org/zap"
)

var ErrBioUnavailable = errors.New("bio suggestions are not configured")

// BioGenerator writes bio suggestions from profile facts.
type BioGenerator interface {
	GenerateBio(ctx context.Context, facts gemini.BioFacts) ([]string, error)
}

type ProfileUseCase struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	prefsRepo    repository.PreferencesRepository
	photoRepo    repository.PhotoRepository
	interestRepo repository.InterestRepository
	promptRepo   repository.PromptRepository
	bio          BioGenerator
	logger       *zap.Logger
	now          func() time.Time
}

type Deps struct {
	Users       repository.UserRepository
	Profiles    repository.ProfileRepository
	Preferences repository.PreferencesRepository
	Photos      repository.PhotoRepository
	Interests   repository.InterestRepository
	Prompts     repository.PromptRepository
	// Bio may be nil when no model is configured.
	Bio BioGenerator
}

func NewProfileUseCase(deps Deps, logger *zap.Logger) *ProfileUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileUseCase{
		userRepo:     deps.Users,
		profileRepo:  deps.Profiles,
		prefsRepo:    deps.Preferences,
		photoRepo:    deps.Photos,
		interestRepo: deps.Interests,
		promptRepo:   deps.Prompts,
		bio:          deps.Bio,
		logger:       logger,
		now:          time.Now,
	}
}

// ProfileResponse is everything the profile screen shows for the current user.
type ProfileResponse struct {
	User              *domain.User                  `json:"user"`
	Age               int                           `json:"age,omitempty"`
	Profile           *domain.UserProfile           `json:"profile,omitempty"`
	DatingPreferences *domain.UserDatingPreferences `json:"dating_preferences,omitempty"`
	AppPreferences    *domain.UserAppPreferences    `json:"app_preferences,omitempty"`
	Interests         []*domain.Interest            `json:"interests"`
	Prompts           []*domain.UserPrompt          `json:"prompts"`
	Photos            []*domain.UserPhoto           `json:"photos"`
}

// UpdateAppPreferencesRequest represents the settings screen toggles. Omitted
// flags keep their stored value.
type UpdateAppPreferencesRequest struct {
	PushNotifications  *bool `json:"push_notifications"`
	EmailNotifications *bool `json:"email_notifications"`
	MarketingEmails    *bool `json:"marketing_emails"`
	AnalyticsSharing   *bool `json:"analytics_sharing"`
}

func (uc *ProfileUseCase) currentUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	return uc.userRepo.GetByAuthUserID(ctx, identity.AuthUserID)
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, identity domain.Identity) (*ProfileResponse, error) {
	user, err := uc.currentUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{User: user}
	if user.BirthDate != nil {
		resp.Age = domain.AgeAt(*user.BirthDate, uc.now())
	}

	if resp.Profile, err = optional(uc.profileRepo.GetByUserID(ctx, user.ID)); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if resp.DatingPreferences, err = optional(uc.prefsRepo.GetDating(ctx, user.ID)); err != nil {
		return nil, fmt.Errorf("failed to get dating preferences: %w", err)
	}
	if resp.AppPreferences, err = optional(uc.prefsRepo.GetApp(ctx, user.ID)); err != nil {
		return nil, fmt.Errorf("failed to get app preferences: %w", err)
	}
	if resp.Interests, err = uc.interests(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.Prompts, err = uc.promptRepo.ListForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to get prompts: %w", err)
	}
	if resp.Photos, err = uc.photoRepo.ListForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	return resp, nil
}

// interests resolves the user's interest ids against the catalog, in the
// order they were picked.
func (uc *ProfileUseCase) interests(ctx context.Context, userID int) ([]*domain.Interest, error) {
	ids, err := uc.interestRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interests: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Interest{}, nil
	}
	catalog, err := uc.interestRepo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get interest catalog: %w", err)
	}
	byID := make(map[string]*domain.Interest, len(catalog))
	for _, i := range catalog {
		byID[i.ID] = i
	}

	out := make([]*domain.Interest, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// UpdateAppPreferences applies the settings toggles.
func (uc *ProfileUseCase) UpdateAppPreferences(ctx context.Context, identity domain.Identity, req *UpdateAppPreferencesRequest) (*domain.UserAppPreferences, error) {
	user, err := uc.currentUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	prefs, err := optional(uc.prefsRepo.GetApp(ctx, user.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to get app preferences: %w", err)
	}
	if prefs == nil {
		prefs = &domain.UserAppPreferences{UserID: user.ID}
	}
	apply(&prefs.PushNotifications, req.PushNotifications)
	apply(&prefs.EmailNotifications, req.EmailNotifications)
	apply(&prefs.MarketingEmails, req.MarketingEmails)
	apply(&prefs.AnalyticsSharing, req.AnalyticsSharing)

	if err := uc.prefsRepo.UpsertApp(ctx, prefs); err != nil {
		return nil, &domain.RemoteWriteError{Op: "upsert_app_preferences", Err: err}
	}
	return prefs, nil
}

// GenerateBio suggests bios from what the user has stored so far.
func (uc *ProfileUseCase) GenerateBio(ctx context.Context, identity domain.Identity) ([]string, error) {
	if uc.bio == nil {
		return nil, ErrBioUnavailable
	}
	user, err := uc.currentUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	facts := gemini.BioFacts{FirstName: user.FirstName}
	interests, err := uc.interests(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, i := range interests {
		facts.Interests = append(facts.Interests, i.Name)
	}
	if p, err := optional(uc.profileRepo.GetByUserID(ctx, user.ID)); err == nil && p != nil {
		facts.Hometown = deref(p.Hometown)
		facts.Work = deref(p.Work)
	}

	bios, err := uc.bio.GenerateBio(ctx, facts)
	if err != nil {
		uc.logger.Warn("bio generation failed", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return bios, nil
}

// optional turns a not-found lookup into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil
	}
	return v, err
}

func apply(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
