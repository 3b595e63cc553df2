package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/storage"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PhotoStorage accepts processed image bytes and returns where they live.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (*storage.Object, error)
}

// Metrics observes step outcomes.
type Metrics interface {
	StepCompleted(step string)
	StepFailed(step, kind string)
}

type nopMetrics struct{}

func (nopMetrics) StepCompleted(string)       {}
func (nopMetrics) StepFailed(string, string) {}

// StateView is what the client needs to render the current step.
type StateView struct {
	Position  FlowPosition            `json:"position"`
	Status    domain.OnboardingStatus `json:"status"`
	Draft     domain.DraftProfile     `json:"draft"`
	StartedAt time.Time               `json:"started_at"`
}

type StepResult struct {
	Position FlowPosition            `json:"position"`
	Status   domain.OnboardingStatus `json:"status"`
	Draft    *domain.DraftProfile    `json:"draft,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
}

type StatusView struct {
	Status            domain.OnboardingStatus `json:"status"`
	LastCompletedStep *string                 `json:"last_completed_step,omitempty"`
	HasSession        bool                    `json:"has_session"`
	Complete          bool                    `json:"complete"`
}

type Usecase struct {
	flow       *FlowController
	reconciler *Reconciler
	drafts     repository.DraftRepository
	areas      repository.AreaRepository
	interests  repository.InterestRepository
	prompts    repository.PromptRepository
	prefs      repository.PreferencesRepository
	storage    PhotoStorage
	metrics    Metrics
	validate   *validator.Validate
	cfg        config.OnboardingConfig
	logger     *zap.Logger
	now        func() time.Time
	handlers   map[domain.OnboardingStep]stepHandler
}

type Deps struct {
	Flow        *FlowController
	Reconciler  *Reconciler
	Drafts      repository.DraftRepository
	Areas       repository.AreaRepository
	Interests   repository.InterestRepository
	Prompts     repository.PromptRepository
	Preferences repository.PreferencesRepository
	Storage     PhotoStorage
	Metrics     Metrics
}

func NewUsecase(deps Deps, cfg config.OnboardingConfig, logger *zap.Logger) *Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := deps.Metrics
	if m == nil {
		m = nopMetrics{}
	}
	uc := &Usecase{
		flow:       deps.Flow,
		reconciler: deps.Reconciler,
		drafts:     deps.Drafts,
		areas:      deps.Areas,
		interests:  deps.Interests,
		prompts:    deps.Prompts,
		prefs:      deps.Preferences,
		storage:    deps.Storage,
		metrics:    m,
		validate:   newValidator(),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
	uc.handlers = uc.stepHandlers()
	return uc
}

// NewCanonicalFlow builds the service's single flow. Notifications are passed
// over when the draft already carries app preferences.
func NewCanonicalFlow(logger *zap.Logger) (*FlowController, error) {
	flow, err := NewFlowController(domain.CanonicalSteps(), nil, logger)
	if err != nil {
		return nil, err
	}
	return flow.WithSkip(domain.StepNotifications, func(d *domain.DraftProfile) bool {
		return d.AppPreferences != nil
	}), nil
}

// sessionNavigator moves an onboarding session to the step behind a route.
type sessionNavigator struct {
	flow    *FlowController
	session *domain.OnboardingSession
}

func (n *sessionNavigator) NavigateTo(ctx context.Context, route string) error {
	step := domain.OnboardingStep(strings.TrimPrefix(route, routePrefix))
	if !n.flow.Contains(step) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownStep, route)
	}
	n.session.CurrentStep = step
	return nil
}

func (uc *Usecase) flowFor(session *domain.OnboardingSession) *FlowController {
	return uc.flow.WithNavigator(&sessionNavigator{flow: uc.flow, session: session})
}

// Start opens an onboarding session, or returns the one in progress. A user
// who already has remote progress resumes after their last completed step.
func (uc *Usecase) Start(ctx context.Context, identity domain.Identity) (*StateView, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}

	session, err := uc.drafts.Get(ctx, identity.AuthUserID)
	if err == nil {
		return uc.view(session, ""), nil
	}
	if !errors.Is(err, domain.ErrOnboardingNotStarted) {
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}

	now := uc.now()
	session = &domain.OnboardingSession{
		AuthUserID: identity.AuthUserID,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	start := uc.flow.First()
	user, err := uc.reconciler.FindUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user != nil {
		session.UserID = &user.ID
		uc.prefill(ctx, session, user)
		if user.LastCompletedStep != nil {
			last := domain.OnboardingStep(*user.LastCompletedStep)
			if next, _, err := uc.flow.NextStep(last, &session.Draft); err == nil {
				start = next
			}
		}
	}

	if _, err := uc.flowFor(session).GoTo(ctx, start); err != nil {
		return nil, err
	}
	if err := uc.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save onboarding session: %w", err)
	}

	uc.logger.Info("onboarding started",
		zap.String("auth_user_id", identity.AuthUserID),
		zap.String("step", session.CurrentStep.String()),
	)
	return uc.view(session, ""), nil
}

// prefill seeds a fresh draft from rows a returning user already has.
func (uc *Usecase) prefill(ctx context.Context, session *domain.OnboardingSession, user *domain.User) {
	name := user.FirstName
	session.Draft.UpdateCoreIdentity(domain.CoreIdentity{
		FirstName:       &name,
		LastName:        user.LastName,
		Gender:          user.Gender,
		CurrentLocation: user.CurrentLocation,
	})
	if user.BirthDate != nil {
		b := *user.BirthDate
		session.Draft.UpdateCoreIdentity(domain.CoreIdentity{DateOfBirth: &domain.DateOfBirth{
			Day:   fmt.Sprint(b.Day()),
			Month: fmt.Sprint(int(b.Month())),
			Year:  fmt.Sprint(b.Year()),
		}})
	}

	app, err := uc.prefs.GetApp(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			uc.logger.Warn("app preferences not loaded", zap.Int("user_id", user.ID), zap.Error(err))
		}
		return
	}
	session.Draft.UpdateAppPreferences(domain.AppPreferences{
		PushNotifications:  &app.PushNotifications,
		EmailNotifications: &app.EmailNotifications,
		MarketingEmails:    &app.MarketingEmails,
		AnalyticsSharing:   &app.AnalyticsSharing,
	})
}

// State returns the session. A non-empty location overrides the recorded
// step, matched the same way as Resolve.
func (uc *Usecase) State(ctx context.Context, identity domain.Identity, location string) (*StateView, error) {
	session, err := uc.session(ctx, identity)
	if err != nil {
		return nil, err
	}
	return uc.view(session, location), nil
}

// Resolve maps a client location to a flow position.
func (uc *Usecase) Resolve(location string) FlowPosition {
	return uc.flow.CurrentStep(location)
}

func (uc *Usecase) view(session *domain.OnboardingSession, location string) *StateView {
	var pos FlowPosition
	if location != "" {
		pos = uc.flow.CurrentStep(location)
	} else {
		p, err := uc.flow.Position(session.CurrentStep)
		if err != nil {
			uc.logger.Warn("stored step is not part of the flow",
				zap.String("step", session.CurrentStep.String()))
			p = uc.flow.CurrentStep("")
		}
		pos = p
	}

	status := domain.OnboardingNotStarted
	if session.UserID != nil {
		status = domain.OnboardingInProgress
	}
	return &StateView{Position: pos, Status: status, Draft: session.Draft, StartedAt: session.StartedAt}
}

func (uc *Usecase) session(ctx context.Context, identity domain.Identity) (*domain.OnboardingSession, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	session, err := uc.drafts.Get(ctx, identity.AuthUserID)
	if err != nil {
		if errors.Is(err, domain.ErrOnboardingNotStarted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}
	return session, nil
}

// SubmitStep validates a step's input, merges it into the draft, writes it to
// the store together with the progress marker, and advances the flow.
func (uc *Usecase) SubmitStep(ctx context.Context, identity domain.Identity, step domain.OnboardingStep, payload []byte) (*StepResult, error) {
	session, err := uc.session(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !uc.flow.Contains(step) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStep, step)
	}
	handler, ok := uc.handlers[step]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStep, step)
	}

	knownUserID := session.UserID
	sc := &stepContext{uc: uc, identity: identity, session: session, payload: payload}
	err = uc.reconciler.Within(ctx, func(ctx context.Context) error {
		if err := handler(ctx, sc); err != nil {
			return err
		}
		if sc.user != nil && !sc.finished {
			return uc.reconciler.MarkStepCompleted(ctx, sc.user.ID, step)
		}
		return nil
	})
	if err != nil {
		uc.metrics.StepFailed(step.String(), failureKind(err))
		if sc.draftChanged {
			// Keep what was typed so a retry does not start from scratch. The
			// user id may belong to a rolled back row.
			session.UserID = knownUserID
			session.UpdatedAt = uc.now()
			if saveErr := uc.drafts.Save(ctx, session); saveErr != nil {
				uc.logger.Warn("draft not saved after failed step", zap.Error(saveErr))
			}
		}
		uc.logger.Warn("onboarding step failed",
			zap.String("auth_user_id", identity.AuthUserID),
			zap.String("step", step.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if sc.finished {
		session.Draft.Clear()
		if err := uc.drafts.Delete(ctx, identity.AuthUserID); err != nil {
			uc.logger.Warn("finished onboarding session not deleted", zap.Error(err))
		}
		uc.metrics.StepCompleted(step.String())
		uc.logger.Info("onboarding complete", zap.String("auth_user_id", identity.AuthUserID))

		pos, _ := uc.flow.Position(step)
		return &StepResult{Position: pos, Status: domain.OnboardingComplete, Warnings: sc.warnings}, nil
	}

	pos, err := uc.flowFor(session).Next(ctx, step, &session.Draft)
	if err != nil {
		return nil, err
	}
	session.UpdatedAt = uc.now()
	if err := uc.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save onboarding session: %w", err)
	}
	uc.metrics.StepCompleted(step.String())

	status := domain.OnboardingNotStarted
	if session.UserID != nil {
		status = domain.OnboardingInProgress
	}
	return &StepResult{Position: pos, Status: status, Draft: &session.Draft, Warnings: sc.warnings}, nil
}

// GoTo moves the session to any step, for revisiting an earlier answer.
func (uc *Usecase) GoTo(ctx context.Context, identity domain.Identity, step domain.OnboardingStep) (*StateView, error) {
	session, err := uc.session(ctx, identity)
	if err != nil {
		return nil, err
	}
	if _, err := uc.flowFor(session).GoTo(ctx, step); err != nil {
		return nil, err
	}
	session.UpdatedAt = uc.now()
	if err := uc.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return uc.view(session, ""), nil
}

// Status reads the explicit progress persisted on the users row.
func (uc *Usecase) Status(ctx context.Context, identity domain.Identity) (*StatusView, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	view := &StatusView{Status: domain.OnboardingNotStarted}

	if _, err := uc.drafts.Get(ctx, identity.AuthUserID); err == nil {
		view.HasSession = true
	} else if !errors.Is(err, domain.ErrOnboardingNotStarted) {
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}

	user, err := uc.reconciler.FindUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return view, nil
	}
	view.Status = user.OnboardingStatus
	view.LastCompletedStep = user.LastCompletedStep
	view.Complete = user.OnboardingStatus == domain.OnboardingComplete
	return view, nil
}

// UploadPhoto stores one processed image for the photos step.
func (uc *Usecase) UploadPhoto(ctx context.Context, identity domain.Identity, body io.Reader, contentType, ext string) (*storage.Object, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.NewValidationError("photo", "must be an image")
	}

	key := storage.PhotoKey(identity.AuthUserID, uc.now(), ext)
	obj, err := uc.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		uc.metrics.StepFailed(domain.StepPhotos.String(), "storage")
		return nil, &domain.RemoteWriteError{Op: "upload_photo", Err: err}
	}
	uc.logger.Info("photo uploaded",
		zap.String("auth_user_id", identity.AuthUserID),
		zap.String("storage_path", obj.StoragePath),
	)
	return obj, nil
}

func failureKind(err error) string {
	var (
		verr *domain.ValidationError
		perr *domain.ProfileCreationError
		rerr *domain.RemoteWriteError
	)
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &perr):
		return "profile_creation"
	case errors.Is(err, domain.ErrOnboardingIncomplete):
		return "incomplete"
	case errors.Is(err, domain.ErrAreaNotFound):
		return "not_found"
	case errors.As(err, &rerr):
		return "remote"
	}
	return "internal"
}
