package onboarding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"go.uber.org/zap"
)

// Reconciler maps draft groups onto the relational store. Every operation is
// an upsert or a set replacement keyed by the user's internal id, so calling
// it again with the same draft is harmless.
type Reconciler struct {
	tx        repository.Transactor
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	prefs     repository.PreferencesRepository
	photos    repository.PhotoRepository
	interests repository.InterestRepository
	prompts   repository.PromptRepository
	logger    *zap.Logger
}

type ReconcilerDeps struct {
	Transactor  repository.Transactor
	Users       repository.UserRepository
	Profiles    repository.ProfileRepository
	Preferences repository.PreferencesRepository
	Photos      repository.PhotoRepository
	Interests   repository.InterestRepository
	Prompts     repository.PromptRepository
}

func NewReconciler(deps ReconcilerDeps, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		tx:        deps.Transactor,
		users:     deps.Users,
		profiles:  deps.Profiles,
		prefs:     deps.Preferences,
		photos:    deps.Photos,
		interests: deps.Interests,
		prompts:   deps.Prompts,
		logger:    logger,
	}
}

func remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var rw *domain.RemoteWriteError
	if errors.As(err, &rw) {
		return err
	}
	return &domain.RemoteWriteError{Op: op, Err: err}
}

// Within runs fn in one store transaction.
func (r *Reconciler) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.WithinTransaction(ctx, fn)
}

// FindUser returns the users row for identity, or nil when it does not exist yet.
func (r *Reconciler) FindUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	user, err := r.users.GetByAuthUserID(ctx, identity.AuthUserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, remote("find_user", err)
	}
	return user, nil
}

// EnsureUserRecord creates the users row, plus an empty profile row, the first
// time first name and birth date are both known. Later calls copy whatever
// core identity fields are set onto the existing row.
func (r *Reconciler) EnsureUserRecord(ctx context.Context, identity domain.Identity, core *domain.CoreIdentity) (*domain.User, error) {
	if identity.IsZero() {
		return nil, &domain.ProfileCreationError{Reason: "no authenticated session", Err: domain.ErrSessionMissing}
	}
	if core == nil || core.FirstName == nil || strings.TrimSpace(*core.FirstName) == "" {
		return nil, &domain.ProfileCreationError{Reason: "first name is required"}
	}

	var birth *time.Time
	if core.DateOfBirth != nil {
		d, err := parseCalendarDate(*core.DateOfBirth)
		if err != nil {
			return nil, &domain.ProfileCreationError{Reason: "birth date is invalid", Err: err}
		}
		birth = &d
	}

	var user *domain.User
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := r.FindUser(ctx, identity)
		if err != nil {
			return err
		}

		if existing == nil {
			if birth == nil {
				return &domain.ProfileCreationError{Reason: "birth date is required"}
			}
			created := &domain.User{
				AuthUserID:       identity.AuthUserID,
				FirstName:        strings.TrimSpace(*core.FirstName),
				LastName:         core.LastName,
				BirthDate:        birth,
				Gender:           core.Gender,
				CurrentLocation:  core.CurrentLocation,
				OnboardingStatus: domain.OnboardingInProgress,
			}
			if identity.Phone != "" {
				phone := identity.Phone
				created.Phone = &phone
			}
			if err := r.users.Create(ctx, created); err != nil {
				return remote("create_user", err)
			}
			if err := r.profiles.CreateEmpty(ctx, created.ID); err != nil {
				return remote("create_profile", err)
			}
			r.logger.Info("user record created",
				zap.String("auth_user_id", identity.AuthUserID),
				zap.Int("user_id", created.ID),
			)
			user = created
			return nil
		}

		existing.FirstName = strings.TrimSpace(*core.FirstName)
		if core.LastName != nil {
			existing.LastName = core.LastName
		}
		if birth != nil {
			existing.BirthDate = birth
		}
		if core.Gender != nil {
			existing.Gender = core.Gender
		}
		if core.CurrentLocation != nil {
			existing.CurrentLocation = core.CurrentLocation
		}
		if err := r.users.UpdateIdentity(ctx, existing); err != nil {
			return remote("update_user", err)
		}
		user = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Reconciler) UpsertExtendedProfile(ctx context.Context, userID int, p *domain.ExtendedProfile) error {
	if p == nil {
		return nil
	}
	profile := &domain.UserProfile{
		UserID:    userID,
		Bio:       p.Bio,
		Height:    p.Height,
		Hometown:  p.Hometown,
		Work:      p.Work,
		Education: p.Education,
		Religion:  p.Religion,
		Drinking:  p.Drinking,
		Smoking:   p.Smoking,
		Pronouns:  p.Pronouns,
	}
	return remote("upsert_profile", r.profiles.Upsert(ctx, profile))
}

func (r *Reconciler) UpsertDatingPreferences(ctx context.Context, userID int, p *domain.DatingPreferences) error {
	if p == nil {
		return nil
	}
	prefs := &domain.UserDatingPreferences{
		UserID:             userID,
		Sexuality:          p.Sexuality,
		DatingIntention:    p.DatingIntention,
		SmokingPreference:  p.SmokingPreference,
		DrinkingPreference: p.DrinkingPreference,
		ChildrenPreference: p.ChildrenPreference,
		PetPreference:      p.PetPreference,
		ReligionImportance: p.ReligionImportance,
		MaxDistanceKm:      p.MaxDistance,
		AgeRangeMin:        p.AgeRangeMin,
		AgeRangeMax:        p.AgeRangeMax,
	}
	if p.RelationshipType != nil {
		rt := string(domain.NormalizeRelationshipType(*p.RelationshipType))
		prefs.RelationshipType = &rt
	}
	return remote("upsert_dating_preferences", r.prefs.UpsertDating(ctx, prefs))
}

// UpsertAppPreferences stores the flags, treating unset ones as off.
func (r *Reconciler) UpsertAppPreferences(ctx context.Context, userID int, p *domain.AppPreferences) error {
	if p == nil {
		p = &domain.AppPreferences{}
	}
	prefs := &domain.UserAppPreferences{
		UserID:             userID,
		PushNotifications:  flag(p.PushNotifications),
		EmailNotifications: flag(p.EmailNotifications),
		MarketingEmails:    flag(p.MarketingEmails),
		AnalyticsSharing:   flag(p.AnalyticsSharing),
	}
	return remote("upsert_app_preferences", r.prefs.UpsertApp(ctx, prefs))
}

func (r *Reconciler) ReplaceInterests(ctx context.Context, userID int, ids []string) error {
	return remote("replace_interests", r.interests.ReplaceForUser(ctx, userID, ids))
}

func (r *Reconciler) ReplacePrompts(ctx context.Context, userID int, prompts []domain.DraftPrompt) error {
	rows := make([]domain.UserPrompt, 0, len(prompts))
	for _, p := range prompts {
		rows = append(rows, domain.UserPrompt{
			UserID:     userID,
			PromptID:   p.PromptID,
			Answer:     p.Answer,
			OrderIndex: p.Order,
		})
	}
	return remote("replace_prompts", r.prompts.ReplaceForUser(ctx, userID, rows))
}

func (r *Reconciler) ReplacePhotos(ctx context.Context, userID int, photos []domain.DraftPhoto) error {
	rows := make([]domain.UserPhoto, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, domain.UserPhoto{
			UserID:      userID,
			PublicURL:   p.URI,
			StoragePath: p.StoragePath,
			PhotoOrder:  p.Order,
			IsMain:      p.IsMain,
			Blurhash:    p.Blurhash,
		})
	}
	return remote("replace_photos", r.photos.ReplaceForUser(ctx, userID, rows))
}

// ReplaceDatingAreas writes the area names to the dating preferences and then
// to the profile's denormalized copy. A failure of the copy is rolled back to
// a savepoint and returned as a PartialReconciliationError, so the
// preferences write and the enclosing transaction still stand.
func (r *Reconciler) ReplaceDatingAreas(ctx context.Context, userID int, areaNames []string) error {
	if err := r.prefs.SetPreferredAreas(ctx, userID, areaNames); err != nil {
		return remote("replace_dating_areas", err)
	}
	err := r.tx.WithinSavepoint(ctx, func(ctx context.Context) error {
		return r.profiles.UpdatePreferredAreas(ctx, userID, areaNames)
	})
	if err != nil {
		r.logger.Warn("profile dating areas not updated",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return &domain.PartialReconciliationError{Op: "profile.preferred_dating_areas", Err: err}
	}
	return nil
}

// UpsertDistrict stores the district id on the profile and its name on the
// users row. Only the profile write is required; the users write runs under
// a savepoint.
func (r *Reconciler) UpsertDistrict(ctx context.Context, userID int, area *domain.Area) error {
	if err := r.profiles.UpdateCurrentLocation(ctx, userID, area.ID); err != nil {
		return remote("upsert_district", err)
	}
	err := r.tx.WithinSavepoint(ctx, func(ctx context.Context) error {
		return r.users.UpdateCurrentLocation(ctx, userID, area.Name)
	})
	if err != nil {
		r.logger.Warn("user location not updated",
			zap.Int("user_id", userID),
			zap.String("area_id", area.ID),
			zap.Error(err),
		)
		return &domain.PartialReconciliationError{Op: "users.current_location", Err: err}
	}
	return nil
}

// HasCompletedOnboarding is true only when profile, dating preferences and
// app preferences rows all exist.
func (r *Reconciler) HasCompletedOnboarding(ctx context.Context, userID int) (bool, error) {
	checks := []struct {
		op    string
		check func(context.Context, int) (bool, error)
	}{
		{"profile_exists", r.profiles.ExistsForUser},
		{"dating_preferences_exist", r.prefs.DatingExists},
		{"app_preferences_exist", r.prefs.AppExists},
	}
	for _, c := range checks {
		ok, err := c.check(ctx, userID)
		if err != nil {
			return false, remote(c.op, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// MarkStepCompleted records progress on the users row.
func (r *Reconciler) MarkStepCompleted(ctx context.Context, userID int, step domain.OnboardingStep) error {
	return remote("update_onboarding_status",
		r.users.UpdateOnboardingStatus(ctx, userID, domain.OnboardingInProgress, &step))
}

func (r *Reconciler) MarkComplete(ctx context.Context, userID int, step domain.OnboardingStep) error {
	return remote("update_onboarding_status",
		r.users.UpdateOnboardingStatus(ctx, userID, domain.OnboardingComplete, &step))
}

func flag(b *bool) bool {
	return b != nil && *b
}
