package onboarding

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/storage"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/gdugdh24/dating-onboarding/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type recordingMetrics struct {
	mu        sync.Mutex
	completed []string
	failed    map[string]string
}

func (m *recordingMetrics) StepCompleted(step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, step)
}

func (m *recordingMetrics) StepFailed(step, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed == nil {
		m.failed = make(map[string]string)
	}
	m.failed[step] = kind
}

// failingProfiles lets a test break single profile writes.
type failingProfiles struct {
	repository.ProfileRepository
	createErr error
	areasErr  error
}

func (f *failingProfiles) CreateEmpty(ctx context.Context, userID int) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ProfileRepository.CreateEmpty(ctx, userID)
}

func (f *failingProfiles) UpdatePreferredAreas(ctx context.Context, userID int, areas []string) error {
	if f.areasErr != nil {
		return f.areasErr
	}
	return f.ProfileRepository.UpdatePreferredAreas(ctx, userID, areas)
}

type failingUsers struct {
	repository.UserRepository
	locationErr error
	// writeFirst applies the location write before failing, like a
	// statement that errors after touching the row.
	writeFirst bool
}

func (f *failingUsers) UpdateCurrentLocation(ctx context.Context, userID int, location string) error {
	if f.locationErr == nil {
		return f.UserRepository.UpdateCurrentLocation(ctx, userID, location)
	}
	if f.writeFirst {
		if err := f.UserRepository.UpdateCurrentLocation(ctx, userID, location); err != nil {
			return err
		}
	}
	return f.locationErr
}

type failingStorage struct{}

func (failingStorage) Upload(context.Context, string, io.Reader, string) (*storage.Object, error) {
	return nil, errors.New("bucket unavailable")
}

type harness struct {
	uc         *Usecase
	reconciler *Reconciler
	store      *memory.Store
	drafts     *memory.DraftRepository
	users      *memory.UserRepository
	profiles   *memory.ProfileRepository
	prefs      *memory.PreferencesRepository
	photos     *memory.PhotoRepository
	interests  *memory.InterestRepository
	prompts    *memory.PromptRepository
	storage    *storage.MemoryStorage
	metrics    *recordingMetrics

	identity    domain.Identity
	areaIDs     []string
	inactiveID  string
	interestIDs []string
	promptIDs   []string
}

type harnessOption func(*ReconcilerDeps, *Deps)

func withProfiles(wrap func(repository.ProfileRepository) repository.ProfileRepository) harnessOption {
	return func(r *ReconcilerDeps, _ *Deps) { r.Profiles = wrap(r.Profiles) }
}

func withUsers(wrap func(repository.UserRepository) repository.UserRepository) harnessOption {
	return func(r *ReconcilerDeps, _ *Deps) { r.Users = wrap(r.Users) }
}

func withStorage(s PhotoStorage) harnessOption {
	return func(_ *ReconcilerDeps, d *Deps) { d.Storage = s }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	store := memory.NewStore()
	store.SetClock(func() time.Time { return testNow })

	h := &harness{
		store:     store,
		drafts:    memory.NewDraftRepository(store, 24*time.Hour),
		users:     memory.NewUserRepository(store),
		profiles:  memory.NewProfileRepository(store),
		prefs:     memory.NewPreferencesRepository(store),
		photos:    memory.NewPhotoRepository(store),
		interests: memory.NewInterestRepository(store),
		prompts:   memory.NewPromptRepository(store),
		storage:   storage.NewMemoryStorage("https://cdn.test"),
		metrics:   &recordingMetrics{},
		identity:  domain.Identity{AuthUserID: "auth-1", Phone: "+15550001111"},
	}

	h.areaIDs = []string{"area-downtown", "area-harbor", "area-eastwood"}
	store.SeedAreas(
		domain.Area{ID: "area-downtown", Name: "Downtown", Region: "Central", IsActive: true},
		domain.Area{ID: "area-harbor", Name: "Harbor", Region: "South", IsActive: true},
		domain.Area{ID: "area-eastwood", Name: "Eastwood", Region: "East", IsActive: true},
		domain.Area{ID: "area-closed", Name: "Closed", Region: "East", IsActive: false},
	)
	h.inactiveID = "area-closed"
	h.interestIDs = []string{"i-hiking", "i-coffee", "i-travel", "i-yoga"}
	for _, id := range h.interestIDs {
		store.SeedInterests(domain.Interest{ID: id, Name: id[2:]})
	}
	h.promptIDs = []string{"p-sunday", "p-geek"}
	for _, id := range h.promptIDs {
		store.SeedPrompts(domain.Prompt{ID: id, Question: id[2:], Category: "about_me", IsActive: true})
	}
	store.SeedPrompts(domain.Prompt{ID: "p-retired", Question: "retired", Category: "about_me", IsActive: false})

	rdeps := ReconcilerDeps{
		Transactor:  memory.NewTransactor(store),
		Users:       h.users,
		Profiles:    h.profiles,
		Preferences: h.prefs,
		Photos:      h.photos,
		Interests:   h.interests,
		Prompts:     h.prompts,
	}
	deps := Deps{
		Drafts:      h.drafts,
		Areas:       memory.NewAreaRepository(store),
		Interests:   h.interests,
		Prompts:     h.prompts,
		Preferences: h.prefs,
		Storage:     h.storage,
		Metrics:     h.metrics,
	}
	for _, opt := range opts {
		opt(&rdeps, &deps)
	}

	flow, err := NewCanonicalFlow(nil)
	require.NoError(t, err)
	h.reconciler = NewReconciler(rdeps, nil)
	deps.Flow = flow
	deps.Reconciler = h.reconciler

	h.uc = NewUsecase(deps, config.OnboardingConfig{DraftTTL: 24 * time.Hour, MinAge: 18, MaxAge: 100}, nil)
	h.uc.now = func() time.Time { return testNow }
	return h
}

func (h *harness) submit(t *testing.T, step domain.OnboardingStep, payload string) *StepResult {
	t.Helper()
	res, err := h.uc.SubmitStep(context.Background(), h.identity, step, []byte(payload))
	require.NoError(t, err, "step %s", step)
	return res
}

// untilUser runs the flow up to and including the date of birth step.
func (h *harness) untilUser(t *testing.T) {
	t.Helper()
	_, err := h.uc.Start(context.Background(), h.identity)
	require.NoError(t, err)
	h.submit(t, domain.StepWelcome, `{}`)
	h.submit(t, domain.StepFirstName, `{"first_name":"  Ada "}`)
	h.submit(t, domain.StepDateOfBirth, `{"day":"10","month":"12","year":"1995"}`)
}

func (h *harness) user(t *testing.T) *domain.User {
	t.Helper()
	u, err := h.users.GetByAuthUserID(context.Background(), h.identity.AuthUserID)
	require.NoError(t, err)
	return u
}
