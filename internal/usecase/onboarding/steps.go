package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type stepHandler func(ctx context.Context, sc *stepContext) error

// stepContext carries one SubmitStep call through its handler.
type stepContext struct {
	uc       *Usecase
	identity domain.Identity
	session  *domain.OnboardingSession
	payload  []byte

	user         *domain.User
	draftChanged bool
	finished     bool
	warnings     []string
}

func (sc *stepContext) bind(dst interface{}) error {
	return bind(sc.uc.validate, sc.payload, dst)
}

// draft returns the session draft for mutation.
func (sc *stepContext) draft() *domain.DraftProfile {
	sc.draftChanged = true
	return &sc.session.Draft
}

func (sc *stepContext) setUser(u *domain.User) {
	sc.user = u
	sc.session.UserID = &u.ID
}

// optionalUser returns the users row if it already exists.
func (sc *stepContext) optionalUser(ctx context.Context) (*domain.User, error) {
	if sc.user != nil {
		return sc.user, nil
	}
	u, err := sc.uc.reconciler.FindUser(ctx, sc.identity)
	if err != nil || u == nil {
		return nil, err
	}
	sc.setUser(u)
	return u, nil
}

// requireUser fails for steps that write child rows before the users row exists.
func (sc *stepContext) requireUser(ctx context.Context) (*domain.User, error) {
	u, err := sc.optionalUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.ProfileCreationError{
			Reason: "date of birth must be completed first",
			Err:    domain.ErrUserNotFound,
		}
	}
	return u, nil
}

// tolerate turns a partial reconciliation into a warning.
func (sc *stepContext) tolerate(err error) error {
	var partial *domain.PartialReconciliationError
	if errors.As(err, &partial) {
		sc.warnings = append(sc.warnings, partial.Error())
		return nil
	}
	return err
}

func (uc *Usecase) stepHandlers() map[domain.OnboardingStep]stepHandler {
	extended := func(ctx context.Context, sc *stepContext, userID int) error {
		return uc.reconciler.UpsertExtendedProfile(ctx, userID, sc.session.Draft.Extended)
	}
	dating := func(ctx context.Context, sc *stepContext, userID int) error {
		return uc.reconciler.UpsertDatingPreferences(ctx, userID, sc.session.Draft.DatingPreferences)
	}

	return map[domain.OnboardingStep]stepHandler{
		domain.StepWelcome:       func(ctx context.Context, sc *stepContext) error { return nil },
		domain.StepFirstName:     uc.submitFirstName,
		domain.StepDateOfBirth:   uc.submitDateOfBirth,
		domain.StepNotifications: uc.submitNotifications,
		domain.StepLocation:      uc.submitLocation,
		domain.StepPronouns: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Pronouns: v})
		}, extended),
		domain.StepGender:           uc.submitGender,
		domain.StepSexuality:        uc.submitSexuality,
		domain.StepRelationshipType: uc.submitRelationshipType,
		domain.StepDatingIntention: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateDatingPreferences(domain.DatingPreferences{DatingIntention: v})
		}, dating),
		domain.StepHeight: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Height: v})
		}, extended),
		domain.StepFamilyPlans: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateDatingPreferences(domain.DatingPreferences{ChildrenPreference: v})
		}, dating),
		domain.StepHometown: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Hometown: v})
		}, extended),
		domain.StepWork: uc.submitWork,
		domain.StepReligion: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Religion: v})
		}, extended),
		domain.StepDrinking: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Drinking: v})
		}, extended),
		domain.StepSmoking: textStep(func(d *domain.DraftProfile, v *string) {
			d.UpdateExtendedProfile(domain.ExtendedProfile{Smoking: v})
		}, extended),
		domain.StepInterests:   uc.submitInterests,
		domain.StepDatingAreas: uc.submitDatingAreas,
		domain.StepPhotos:      uc.submitPhotos,
		domain.StepPrompts:     uc.submitPrompts,
		domain.StepComplete:    uc.submitComplete,
	}
}

// textStep handles single-answer steps.
func textStep(apply func(d *domain.DraftProfile, v *string), write func(ctx context.Context, sc *stepContext, userID int) error) stepHandler {
	return func(ctx context.Context, sc *stepContext) error {
		var in TextInput
		if err := sc.bind(&in); err != nil {
			return err
		}
		v := trimmed(in.Value)
		if *v == "" {
			return domain.NewValidationError("value", "is required")
		}
		user, err := sc.requireUser(ctx)
		if err != nil {
			return err
		}
		apply(sc.draft(), v)
		return write(ctx, sc, user.ID)
	}
}

func (uc *Usecase) submitFirstName(ctx context.Context, sc *stepContext) error {
	var in FirstNameInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	core := domain.CoreIdentity{FirstName: trimmed(in.FirstName)}
	if *core.FirstName == "" {
		return domain.NewValidationError("first_name", "is required")
	}
	if in.LastName != nil {
		core.LastName = trimmed(*in.LastName)
	}
	draft := sc.draft()
	draft.UpdateCoreIdentity(core)

	// The users row only exists once the birth date is known.
	existing, err := sc.optionalUser(ctx)
	if err != nil || existing == nil {
		return err
	}
	user, err := uc.reconciler.EnsureUserRecord(ctx, sc.identity, draft.Core)
	if err != nil {
		return err
	}
	sc.setUser(user)
	return nil
}

func (uc *Usecase) submitDateOfBirth(ctx context.Context, sc *stepContext) error {
	var in DateOfBirthInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	dob := domain.DateOfBirth{Day: in.Day, Month: in.Month, Year: in.Year}
	if _, err := ParseDateOfBirth(dob, uc.now(), uc.cfg.MinAge, uc.cfg.MaxAge); err != nil {
		return err
	}
	draft := sc.draft()
	draft.UpdateCoreIdentity(domain.CoreIdentity{DateOfBirth: &dob})

	user, err := uc.reconciler.EnsureUserRecord(ctx, sc.identity, draft.Core)
	if err != nil {
		return err
	}
	sc.setUser(user)
	return nil
}

func (uc *Usecase) submitNotifications(ctx context.Context, sc *stepContext) error {
	var in NotificationsInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	draft := sc.draft()
	draft.UpdateAppPreferences(domain.AppPreferences{
		PushNotifications:  in.PushNotifications,
		EmailNotifications: in.EmailNotifications,
		MarketingEmails:    in.MarketingEmails,
		AnalyticsSharing:   in.AnalyticsSharing,
	})
	return uc.reconciler.UpsertAppPreferences(ctx, user.ID, draft.AppPreferences)
}

func (uc *Usecase) lookupArea(ctx context.Context, id string) (*domain.Area, error) {
	area, err := uc.areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAreaNotFound) {
			return nil, err
		}
		return nil, &domain.RemoteWriteError{Op: "get_area", Err: err}
	}
	if !area.IsActive {
		return nil, domain.ErrAreaNotFound
	}
	return area, nil
}

// checkInterests rejects ids that are not in the interest catalog.
func (uc *Usecase) checkInterests(ctx context.Context, ids []string) error {
	catalog, err := uc.interests.ListCatalog(ctx)
	if err != nil {
		return &domain.RemoteWriteError{Op: "list_interests", Err: err}
	}
	known := make(map[string]struct{}, len(catalog))
	for _, i := range catalog {
		known[i.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return domain.NewValidationError("interest_ids", fmt.Sprintf("unknown interest %q", id))
		}
	}
	return nil
}

// checkPrompts rejects prompt ids that are unknown or no longer active.
func (uc *Usecase) checkPrompts(ctx context.Context, prompts []PromptAnswerInput) error {
	catalog, err := uc.prompts.ListCatalog(ctx)
	if err != nil {
		return &domain.RemoteWriteError{Op: "list_prompts", Err: err}
	}
	active := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		if p.IsActive {
			active[p.ID] = struct{}{}
		}
	}
	for i, p := range prompts {
		if _, ok := active[p.PromptID]; !ok {
			return domain.NewValidationError(fmt.Sprintf("prompts[%d].prompt_id", i), fmt.Sprintf("unknown prompt %q", p.PromptID))
		}
	}
	return nil
}

func (uc *Usecase) submitLocation(ctx context.Context, sc *stepContext) error {
	var in LocationInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	area, err := uc.lookupArea(ctx, in.DistrictID)
	if err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	name := area.Name
	sc.draft().UpdateCoreIdentity(domain.CoreIdentity{CurrentLocation: &name})
	return sc.tolerate(uc.reconciler.UpsertDistrict(ctx, user.ID, area))
}

func (uc *Usecase) submitGender(ctx context.Context, sc *stepContext) error {
	var in GenderInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	if _, err := sc.requireUser(ctx); err != nil {
		return err
	}
	gender := in.Gender
	draft := sc.draft()
	draft.UpdateCoreIdentity(domain.CoreIdentity{Gender: &gender})

	user, err := uc.reconciler.EnsureUserRecord(ctx, sc.identity, draft.Core)
	if err != nil {
		return err
	}
	sc.setUser(user)
	return nil
}

func (uc *Usecase) submitSexuality(ctx context.Context, sc *stepContext) error {
	var in SexualityInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	joined := strings.Join(in.Sexuality, ", ")
	draft := sc.draft()
	draft.UpdateDatingPreferences(domain.DatingPreferences{Sexuality: &joined})
	return uc.reconciler.UpsertDatingPreferences(ctx, user.ID, draft.DatingPreferences)
}

func (uc *Usecase) submitRelationshipType(ctx context.Context, sc *stepContext) error {
	var in RelationshipTypeInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	rt := string(domain.NormalizeRelationshipType(in.RelationshipType))
	draft := sc.draft()
	draft.UpdateDatingPreferences(domain.DatingPreferences{RelationshipType: &rt})
	return uc.reconciler.UpsertDatingPreferences(ctx, user.ID, draft.DatingPreferences)
}

func (uc *Usecase) submitWork(ctx context.Context, sc *stepContext) error {
	var in WorkInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	work := trimmed(in.Work)
	if *work == "" {
		return domain.NewValidationError("work", "is required")
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	p := domain.ExtendedProfile{Work: work}
	if in.Education != nil {
		p.Education = trimmed(*in.Education)
	}
	draft := sc.draft()
	draft.UpdateExtendedProfile(p)
	return uc.reconciler.UpsertExtendedProfile(ctx, user.ID, draft.Extended)
}

func (uc *Usecase) submitInterests(ctx context.Context, sc *stepContext) error {
	var in InterestsInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	if err := uc.checkInterests(ctx, in.InterestIDs); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	draft := sc.draft()
	draft.UpdateInterests(in.InterestIDs)
	return uc.reconciler.ReplaceInterests(ctx, user.ID, draft.Interests)
}

func (uc *Usecase) submitDatingAreas(ctx context.Context, sc *stepContext) error {
	var in DatingAreasInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	names := make([]string, 0, len(in.AreaIDs))
	for _, id := range in.AreaIDs {
		area, err := uc.lookupArea(ctx, id)
		if err != nil {
			return err
		}
		names = append(names, area.Name)
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	sc.draft().UpdateDatingAreas(in.AreaIDs)
	return sc.tolerate(uc.reconciler.ReplaceDatingAreas(ctx, user.ID, names))
}

func (uc *Usecase) submitPhotos(ctx context.Context, sc *stepContext) error {
	var in PhotosInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	photos := NormalizePhotos(in.Photos)
	draft := sc.draft()
	draft.UpdateExtendedProfile(domain.ExtendedProfile{Photos: photos})
	return uc.reconciler.ReplacePhotos(ctx, user.ID, draft.Extended.Photos)
}

// NormalizePhotos numbers photos 1..n in the given order and leaves exactly
// one main photo: the first one flagged, or the first one overall.
func NormalizePhotos(in []PhotoInput) []domain.DraftPhoto {
	photos := make([]domain.DraftPhoto, 0, len(in))
	mainSeen := false
	for i, p := range in {
		isMain := p.IsMain && !mainSeen
		mainSeen = mainSeen || isMain
		photos = append(photos, domain.DraftPhoto{
			URI:         p.PublicURL,
			StoragePath: p.StoragePath,
			Order:       i + 1,
			IsMain:      isMain,
			Blurhash:    p.Blurhash,
		})
	}
	if !mainSeen && len(photos) > 0 {
		photos[0].IsMain = true
	}
	return photos
}

func (uc *Usecase) submitPrompts(ctx context.Context, sc *stepContext) error {
	var in PromptsInput
	if err := sc.bind(&in); err != nil {
		return err
	}
	prompts := make([]domain.DraftPrompt, 0, len(in.Prompts))
	for i, p := range in.Prompts {
		answer := strings.TrimSpace(p.Answer)
		if answer == "" {
			return domain.NewValidationError("prompts", "answers must not be empty")
		}
		prompts = append(prompts, domain.DraftPrompt{PromptID: p.PromptID, Answer: answer, Order: i + 1})
	}
	if err := uc.checkPrompts(ctx, in.Prompts); err != nil {
		return err
	}
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	draft := sc.draft()
	draft.UpdatePrompts(prompts)
	return uc.reconciler.ReplacePrompts(ctx, user.ID, draft.Prompts)
}

func (uc *Usecase) submitComplete(ctx context.Context, sc *stepContext) error {
	user, err := sc.requireUser(ctx)
	if err != nil {
		return err
	}
	done, err := uc.reconciler.HasCompletedOnboarding(ctx, user.ID)
	if err != nil {
		return err
	}
	if !done {
		return domain.ErrOnboardingIncomplete
	}
	if err := uc.reconciler.MarkComplete(ctx, user.ID, domain.StepComplete); err != nil {
		return err
	}
	sc.finished = true
	return nil
}
