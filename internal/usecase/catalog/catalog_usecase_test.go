package catalog

import (
	"context"
	"testing"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(store *memory.Store) *CatalogUseCase {
	return NewCatalogUseCase(
		memory.NewAreaRepository(store),
		memory.NewInterestRepository(store),
		memory.NewPromptRepository(store),
	)
}

func category(s string) *string { return &s }

func TestAreasGroupedByRegion(t *testing.T) {
	store := memory.NewStore()
	store.SeedAreas(
		domain.Area{ID: "1", Name: "Riverside", Region: "Central", IsActive: true},
		domain.Area{ID: "2", Name: "Harbor", Region: "South", IsActive: true},
		domain.Area{ID: "3", Name: "Downtown", Region: "Central", IsActive: true},
		domain.Area{ID: "4", Name: "Closed", Region: "Central", IsActive: false},
	)

	groups, err := newCatalog(store).Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Central", groups[0].Region)
	require.Len(t, groups[0].Areas, 2)
	assert.Equal(t, "Downtown", groups[0].Areas[0].Name)
	assert.Equal(t, "Riverside", groups[0].Areas[1].Name)
	assert.Equal(t, "South", groups[1].Region)
}

func TestInterestsGroupedByCategory(t *testing.T) {
	store := memory.NewStore()
	store.SeedInterests(
		domain.Interest{ID: "1", Name: "Travel"},
		domain.Interest{ID: "2", Name: "Yoga", Category: category("Sports")},
		domain.Interest{ID: "3", Name: "Coffee", Category: category("Food & Drink")},
		domain.Interest{ID: "4", Name: "Cycling", Category: category("Sports")},
		domain.Interest{ID: "5", Name: "Reading", Category: category("")},
	)

	groups, err := newCatalog(store).Interests(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Food & Drink", groups[0].Category)
	assert.Equal(t, "Sports", groups[1].Category)
	assert.Equal(t, "Cycling", groups[1].Interests[0].Name)
	assert.Equal(t, OtherCategory, groups[2].Category)
	require.Len(t, groups[2].Interests, 2)
	assert.Equal(t, "Reading", groups[2].Interests[0].Name)
}

func TestPromptsSeededDefaults(t *testing.T) {
	store := memory.NewStore()
	store.SeedDefaults()

	prompts, err := newCatalog(store).Prompts(context.Background())
	require.NoError(t, err)
	require.Len(t, prompts, 7)
	assert.Equal(t, "About me", prompts[0].Category)
	assert.Equal(t, "A life goal of mine", prompts[0].Question)
	assert.Equal(t, "Fun", prompts[len(prompts)-1].Category)

	areas, err := newCatalog(store).Areas(context.Background())
	require.NoError(t, err)
	assert.Len(t, areas, 5)
}
