package domain

import "time"

type OnboardingStep string

const (
	StepWelcome          OnboardingStep = "welcome"
	StepFirstName        OnboardingStep = "first_name"
	StepDateOfBirth      OnboardingStep = "date_of_birth"
	StepNotifications    OnboardingStep = "notifications"
	StepLocation         OnboardingStep = "location"
	StepPronouns         OnboardingStep = "pronouns"
	StepGender           OnboardingStep = "gender"
	StepSexuality        OnboardingStep = "sexuality"
	StepRelationshipType OnboardingStep = "relationship_type"
	StepDatingIntention  OnboardingStep = "dating_intention"
	StepHeight           OnboardingStep = "height"
	StepFamilyPlans      OnboardingStep = "family_plans"
	StepHometown         OnboardingStep = "hometown"
	StepWork             OnboardingStep = "work"
	StepReligion         OnboardingStep = "religion"
	StepDrinking         OnboardingStep = "drinking"
	StepSmoking          OnboardingStep = "smoking"
	StepInterests        OnboardingStep = "interests"
	StepDatingAreas      OnboardingStep = "dating_areas"
	StepPhotos           OnboardingStep = "photos"
	StepPrompts          OnboardingStep = "prompts"
	StepComplete         OnboardingStep = "complete"
)

// CanonicalSteps is the one onboarding order the service runs.
func CanonicalSteps() []OnboardingStep {
	return []OnboardingStep{
		StepWelcome,
		StepFirstName,
		StepDateOfBirth,
		StepNotifications,
		StepLocation,
		StepPronouns,
		StepGender,
		StepSexuality,
		StepRelationshipType,
		StepDatingIntention,
		StepHeight,
		StepFamilyPlans,
		StepHometown,
		StepWork,
		StepReligion,
		StepDrinking,
		StepSmoking,
		StepInterests,
		StepDatingAreas,
		StepPhotos,
		StepPrompts,
		StepComplete,
	}
}

func (s OnboardingStep) String() string { return string(s) }

type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "not_started"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingComplete   OnboardingStatus = "complete"
)

// OnboardingProgress is the explicit status persisted on the users row.
type OnboardingProgress struct {
	Status            OnboardingStatus `json:"status"`
	LastCompletedStep *OnboardingStep  `json:"last_completed_step,omitempty"`
}

// OnboardingSession is the server-held state of one user's flow: where they
// are and the draft collected so far.
type OnboardingSession struct {
	AuthUserID  string         `json:"auth_user_id"`
	UserID      *int           `json:"user_id,omitempty"`
	CurrentStep OnboardingStep `json:"current_step"`
	Draft       DraftProfile   `json:"draft"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
