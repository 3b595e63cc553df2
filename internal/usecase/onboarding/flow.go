package onboarding

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"go.uber.org/zap"
)

const routePrefix = "/onboarding/"

// Navigator moves the caller to a route. The HTTP layer records the step on
// the onboarding session and hands the route back to the client.
type Navigator interface {
	NavigateTo(ctx context.Context, route string) error
}

// SkipPredicate reports whether a step can be skipped for the given draft.
type SkipPredicate func(draft *domain.DraftProfile) bool

// FlowPosition is a resolved place in the flow.
type FlowPosition struct {
	Step          domain.OnboardingStep `json:"step"`
	Route         string                `json:"route"`
	Index         int                   `json:"index"`
	Total         int                   `json:"total"`
	IsFirst       bool                  `json:"is_first"`
	IsLast        bool                  `json:"is_last"`
	CanGoNext     bool                  `json:"can_go_next"`
	CanGoPrevious bool                  `json:"can_go_previous"`
}

// FlowController sequences onboarding steps. It holds no per-user state: the
// caller passes the current step and draft on every call.
type FlowController struct {
	steps  []domain.OnboardingStep
	index  map[domain.OnboardingStep]int
	skips  map[domain.OnboardingStep]SkipPredicate
	nav    Navigator
	logger *zap.Logger
}

func NewFlowController(steps []domain.OnboardingStep, nav Navigator, logger *zap.Logger) (*FlowController, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("flow needs at least one step")
	}
	index := make(map[domain.OnboardingStep]int, len(steps))
	for i, s := range steps {
		if s == "" {
			return nil, fmt.Errorf("flow step %d is empty", i)
		}
		if _, dup := index[s]; dup {
			return nil, fmt.Errorf("flow step %q appears twice", s)
		}
		index[s] = i
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowController{
		steps:  append([]domain.OnboardingStep(nil), steps...),
		index:  index,
		skips:  make(map[domain.OnboardingStep]SkipPredicate),
		nav:    nav,
		logger: logger,
	}, nil
}

// WithSkip registers a predicate that lets Next pass over step. The last step
// is never skipped.
func (f *FlowController) WithSkip(step domain.OnboardingStep, pred SkipPredicate) *FlowController {
	f.skips[step] = pred
	return f
}

// WithNavigator returns a copy of f that navigates through nav.
func (f *FlowController) WithNavigator(nav Navigator) *FlowController {
	c := *f
	c.nav = nav
	return &c
}

func Route(step domain.OnboardingStep) string {
	return routePrefix + step.String()
}

func (f *FlowController) Steps() []domain.OnboardingStep {
	return append([]domain.OnboardingStep(nil), f.steps...)
}

func (f *FlowController) First() domain.OnboardingStep { return f.steps[0] }

func (f *FlowController) Last() domain.OnboardingStep { return f.steps[len(f.steps)-1] }

func (f *FlowController) Contains(step domain.OnboardingStep) bool {
	_, ok := f.index[step]
	return ok
}

func (f *FlowController) Position(step domain.OnboardingStep) (FlowPosition, error) {
	i, ok := f.index[step]
	if !ok {
		return FlowPosition{}, fmt.Errorf("%w: %s", domain.ErrUnknownStep, step)
	}
	return f.positionAt(i), nil
}

func (f *FlowController) positionAt(i int) FlowPosition {
	last := len(f.steps) - 1
	return FlowPosition{
		Step:          f.steps[i],
		Route:         Route(f.steps[i]),
		Index:         i,
		Total:         len(f.steps),
		IsFirst:       i == 0,
		IsLast:        i == last,
		CanGoNext:     i < last,
		CanGoPrevious: i > 0,
	}
}

// CurrentStep resolves a location such as "/onboarding/gender" by exact match
// on its final path segment. Unknown locations fall back to the first step.
func (f *FlowController) CurrentStep(location string) FlowPosition {
	segment := strings.TrimSpace(location)
	if q := strings.IndexAny(segment, "?#"); q >= 0 {
		segment = segment[:q]
	}
	segment = strings.TrimRight(segment, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	if i, ok := f.index[domain.OnboardingStep(segment)]; ok {
		return f.positionAt(i)
	}
	f.logger.Warn("unmatched onboarding location, falling back to first step",
		zap.String("location", location),
		zap.String("fallback", f.steps[0].String()),
	)
	return f.positionAt(0)
}

// NextStep returns the step after current, passing over steps whose skip
// predicate holds for draft. The bool is false at the last step.
func (f *FlowController) NextStep(current domain.OnboardingStep, draft *domain.DraftProfile) (domain.OnboardingStep, bool, error) {
	i, ok := f.index[current]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", domain.ErrUnknownStep, current)
	}
	last := len(f.steps) - 1
	if i == last {
		return current, false, nil
	}

	for j := i + 1; j < last; j++ {
		pred, gated := f.skips[f.steps[j]]
		if gated && draft != nil && pred(draft) {
			f.logger.Debug("skipping onboarding step", zap.String("step", f.steps[j].String()))
			continue
		}
		return f.steps[j], true, nil
	}
	return f.steps[last], true, nil
}

// Next advances from current and navigates there. At the last step it stays
// put and does not navigate.
func (f *FlowController) Next(ctx context.Context, current domain.OnboardingStep, draft *domain.DraftProfile) (FlowPosition, error) {
	next, moved, err := f.NextStep(current, draft)
	if err != nil {
		return FlowPosition{}, err
	}
	pos := f.positionAt(f.index[next])
	if !moved {
		return pos, nil
	}
	if err := f.navigate(ctx, pos); err != nil {
		return FlowPosition{}, err
	}
	return pos, nil
}

// GoTo jumps to any known step.
func (f *FlowController) GoTo(ctx context.Context, step domain.OnboardingStep) (FlowPosition, error) {
	pos, err := f.Position(step)
	if err != nil {
		return FlowPosition{}, err
	}
	if err := f.navigate(ctx, pos); err != nil {
		return FlowPosition{}, err
	}
	return pos, nil
}

func (f *FlowController) navigate(ctx context.Context, pos FlowPosition) error {
	if f.nav == nil {
		return nil
	}
	if err := f.nav.NavigateTo(ctx, pos.Route); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", pos.Route, err)
	}
	return nil
}
