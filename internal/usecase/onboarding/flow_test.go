package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNavigator struct {
	routes []string
	err    error
}

func (n *recordingNavigator) NavigateTo(ctx context.Context, route string) error {
	if n.err != nil {
		return n.err
	}
	n.routes = append(n.routes, route)
	return nil
}

func TestNewFlowControllerRejectsBadOrders(t *testing.T) {
	_, err := NewFlowController(nil, nil, nil)
	assert.Error(t, err)

	_, err = NewFlowController([]domain.OnboardingStep{"a", "b", "a"}, nil, nil)
	assert.ErrorContains(t, err, "appears twice")

	_, err = NewFlowController([]domain.OnboardingStep{"a", ""}, nil, nil)
	assert.Error(t, err)
}

func TestNextFollowsStepOrder(t *testing.T) {
	ctx := context.Background()
	steps := domain.CanonicalSteps()
	nav := &recordingNavigator{}
	flow, err := NewFlowController(steps, nav, nil)
	require.NoError(t, err)

	for i, s := range steps[:len(steps)-1] {
		pos, err := flow.Next(ctx, s, &domain.DraftProfile{})
		require.NoError(t, err)
		assert.Equal(t, steps[i+1], pos.Step, "after %s", s)
		assert.Equal(t, i+1, pos.Index)
	}
	assert.Len(t, nav.routes, len(steps)-1)
	assert.Equal(t, "/onboarding/first_name", nav.routes[0])
}

func TestNextIsNoOpAtLastStep(t *testing.T) {
	nav := &recordingNavigator{}
	flow, err := NewFlowController(domain.CanonicalSteps(), nav, nil)
	require.NoError(t, err)

	pos, err := flow.Next(context.Background(), domain.StepComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StepComplete, pos.Step)
	assert.True(t, pos.IsLast)
	assert.False(t, pos.CanGoNext)
	assert.Empty(t, nav.routes)
}

func TestNextUnknownStep(t *testing.T) {
	flow, err := NewFlowController(domain.CanonicalSteps(), nil, nil)
	require.NoError(t, err)

	_, err = flow.Next(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestNextSurfacesNavigationFailure(t *testing.T) {
	nav := &recordingNavigator{err: errors.New("gone")}
	flow, err := NewFlowController(domain.CanonicalSteps(), nav, nil)
	require.NoError(t, err)

	_, err = flow.Next(context.Background(), domain.StepWelcome, nil)
	assert.ErrorContains(t, err, "gone")
}

func TestSkipPredicates(t *testing.T) {
	flow, err := NewCanonicalFlow(nil)
	require.NoError(t, err)

	t.Run("not skipped without app preferences", func(t *testing.T) {
		next, moved, err := flow.NextStep(domain.StepDateOfBirth, &domain.DraftProfile{})
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, domain.StepNotifications, next)
	})

	t.Run("skipped once app preferences exist", func(t *testing.T) {
		draft := &domain.DraftProfile{}
		on := true
		draft.UpdateAppPreferences(domain.AppPreferences{PushNotifications: &on})

		next, _, err := flow.NextStep(domain.StepDateOfBirth, draft)
		require.NoError(t, err)
		assert.Equal(t, domain.StepLocation, next)
	})

	t.Run("last step is never skipped", func(t *testing.T) {
		f, err := NewFlowController([]domain.OnboardingStep{"a", "b", "c"}, nil, nil)
		require.NoError(t, err)
		always := func(*domain.DraftProfile) bool { return true }
		f.WithSkip("b", always).WithSkip("c", always)

		next, moved, err := f.NextStep("a", &domain.DraftProfile{})
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, domain.OnboardingStep("c"), next)
	})
}

func TestCurrentStepMatchesFinalSegmentExactly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	flow, err := NewFlowController([]domain.OnboardingStep{"welcome", "work", "homework"}, nil, zap.New(core))
	require.NoError(t, err)

	tests := []struct {
		location string
		want     domain.OnboardingStep
		index    int
	}{
		{"/onboarding/work", "work", 1},
		{"/onboarding/homework", "homework", 2},
		{"/onboarding/homework/", "homework", 2},
		{"/onboarding/work?edit=1", "work", 1},
		{"work", "work", 1},
		{"/onboarding/wor", "welcome", 0},
		{"/onboarding/work/photos", "welcome", 0},
		{"", "welcome", 0},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			pos := flow.CurrentStep(tt.location)
			assert.Equal(t, tt.want, pos.Step)
			assert.Equal(t, tt.index, pos.Index)
			assert.Equal(t, 3, pos.Total)
		})
	}

	assert.Equal(t, 3, logs.FilterMessage("unmatched onboarding location, falling back to first step").Len())
}

func TestPosition(t *testing.T) {
	flow, err := NewFlowController(domain.CanonicalSteps(), nil, nil)
	require.NoError(t, err)

	first, err := flow.Position(domain.StepWelcome)
	require.NoError(t, err)
	assert.True(t, first.IsFirst)
	assert.False(t, first.CanGoPrevious)
	assert.True(t, first.CanGoNext)
	assert.Equal(t, "/onboarding/welcome", first.Route)

	_, err = flow.Position("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestGoTo(t *testing.T) {
	nav := &recordingNavigator{}
	flow, err := NewFlowController(domain.CanonicalSteps(), nav, nil)
	require.NoError(t, err)

	pos, err := flow.GoTo(context.Background(), domain.StepPrompts)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPrompts, pos.Step)
	assert.Equal(t, []string{"/onboarding/prompts"}, nav.routes)

	_, err = flow.GoTo(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
	assert.Len(t, nav.routes, 1)
}
