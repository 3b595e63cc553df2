package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
)

// OtherCategory holds interests stored without a category.
const OtherCategory = "Other"

type CatalogUseCase struct {
	areaRepo     repository.AreaRepository
	interestRepo repository.InterestRepository
	promptRepo   repository.PromptRepository
}

func NewCatalogUseCase(areas repository.AreaRepository, interests repository.InterestRepository, prompts repository.PromptRepository) *CatalogUseCase {
	return &CatalogUseCase{
		areaRepo:     areas,
		interestRepo: interests,
		promptRepo:   prompts,
	}
}

type RegionAreas struct {
	Region string         `json:"region"`
	Areas  []*domain.Area `json:"areas"`
}

type InterestCategory struct {
	Category  string             `json:"category"`
	Interests []*domain.Interest `json:"interests"`
}

// Areas returns active districts grouped by region, both sorted by name.
func (uc *CatalogUseCase) Areas(ctx context.Context) ([]RegionAreas, error) {
	areas, err := uc.areaRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}

	groups := make(map[string][]*domain.Area)
	for _, a := range areas {
		groups[a.Region] = append(groups[a.Region], a)
	}
	out := make([]RegionAreas, 0, len(groups))
	for region, list := range groups {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = append(out, RegionAreas{Region: region, Areas: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

// Interests returns the catalog grouped by category. Uncategorized interests
// are listed last under OtherCategory.
func (uc *CatalogUseCase) Interests(ctx context.Context) ([]InterestCategory, error) {
	interests, err := uc.interestRepo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	groups := make(map[string][]*domain.Interest)
	for _, i := range interests {
		category := OtherCategory
		if i.Category != nil && *i.Category != "" {
			category = *i.Category
		}
		groups[category] = append(groups[category], i)
	}
	out := make([]InterestCategory, 0, len(groups))
	for category, list := range groups {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = append(out, InterestCategory{Category: category, Interests: list})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Category == OtherCategory) != (out[j].Category == OtherCategory) {
			return out[j].Category == OtherCategory
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// Prompts returns the active prompts ordered by category, then question.
func (uc *CatalogUseCase) Prompts(ctx context.Context) ([]*domain.Prompt, error) {
	prompts, err := uc.promptRepo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	sort.SliceStable(prompts, func(i, j int) bool {
		if prompts[i].Category != prompts[j].Category {
			return prompts[i].Category < prompts[j].Category
		}
		return prompts[i].Question < prompts[j].Question
	})
	return prompts, nil
}
