package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateExtendedProfileIsIdempotent(t *testing.T) {
	var once, twice DraftProfile
	once.UpdateExtendedProfile(ExtendedProfile{Height: ptr("170")})
	twice.UpdateExtendedProfile(ExtendedProfile{Height: ptr("170")})
	twice.UpdateExtendedProfile(ExtendedProfile{Height: ptr("170")})

	assert.Equal(t, once, twice)
}

func TestUpdatesMergeShallowly(t *testing.T) {
	var d DraftProfile
	d.UpdateCoreIdentity(CoreIdentity{FirstName: ptr("Ada")})
	d.UpdateCoreIdentity(CoreIdentity{Gender: ptr("Female")})
	d.UpdateCoreIdentity(CoreIdentity{FirstName: ptr("Ada L.")})

	require.NotNil(t, d.Core)
	assert.Equal(t, "Ada L.", *d.Core.FirstName)
	assert.Equal(t, "Female", *d.Core.Gender)
	assert.Nil(t, d.Core.LastName)
}

func TestUpdatesDoNotAliasCallerValues(t *testing.T) {
	var d DraftProfile
	name := "Ada"
	d.UpdateCoreIdentity(CoreIdentity{FirstName: &name})
	name = "Grace"

	assert.Equal(t, "Ada", d.FirstName())
}

func TestPartialDraftIsValid(t *testing.T) {
	var d DraftProfile
	d.UpdateCoreIdentity(CoreIdentity{FirstName: ptr("Ada")})

	assert.Nil(t, d.Extended)
	assert.Nil(t, d.DatingPreferences)
	assert.Nil(t, d.AppPreferences)
	assert.False(t, d.IsEmpty())

	assert.NotPanics(t, func() {
		d.UpdateDatingPreferences(DatingPreferences{Sexuality: ptr("Women")})
		d.UpdateAppPreferences(AppPreferences{PushNotifications: ptr(true)})
		d.UpdateInterests(nil)
		d.UpdatePrompts(nil)
	})
	assert.Equal(t, "Women", *d.DatingPreferences.Sexuality)
	assert.Nil(t, d.Extended)
}

func TestUpdateInterestsDropsDuplicates(t *testing.T) {
	var d DraftProfile
	d.UpdateInterests([]string{"chess", "hiking", "chess", "yoga"})
	assert.Equal(t, []string{"chess", "hiking", "yoga"}, d.Interests)

	d.UpdateInterests([]string{"c"})
	assert.Equal(t, []string{"c"}, d.Interests)
}

func TestClear(t *testing.T) {
	var d DraftProfile
	d.UpdateCoreIdentity(CoreIdentity{FirstName: ptr("Ada")})
	d.UpdateDatingAreas([]string{"a"})
	d.Clear()

	assert.True(t, d.IsEmpty())
	assert.Equal(t, "", d.FirstName())
}

func TestNormalizeRelationshipType(t *testing.T) {
	tests := map[string]RelationshipType{
		"Monogamy":                RelationshipMonogamous,
		"Ethical non-monogamy":    RelationshipMonogamous,
		"Open relationship":       RelationshipOpen,
		"Polyamory":               RelationshipPolyamorous,
		"  POLYAMOROUS ":          RelationshipPolyamorous,
		"":                        RelationshipMonogamous,
		"figuring out my type...": RelationshipMonogamous,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeRelationshipType(in))
		})
	}
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 18, AgeAt(time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 17, AgeAt(time.Date(2008, 6, 16, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 26, AgeAt(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestCanonicalStepsAreUnique(t *testing.T) {
	steps := CanonicalSteps()
	seen := make(map[OnboardingStep]bool, len(steps))
	for _, s := range steps {
		assert.False(t, seen[s], "duplicate step %s", s)
		seen[s] = true
	}
	assert.Len(t, steps, 22)
	assert.Equal(t, StepWelcome, steps[0])
	assert.Equal(t, StepComplete, steps[len(steps)-1])
}
