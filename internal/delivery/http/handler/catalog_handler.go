package handler

import (
	"net/http"

	"github.com/gdugdh24/dating-onboarding/internal/usecase/catalog"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUseCase *catalog.CatalogUseCase
}

func NewCatalogHandler(catalogUseCase *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalogUseCase: catalogUseCase}
}

// Areas handles GET /catalog/areas
// @Summary List districts
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.RegionAreas
// @Router /catalog/areas [get]
func (h *CatalogHandler) Areas(c *gin.Context) {
	areas, err := h.catalogUseCase.Areas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// Interests handles GET /catalog/interests
// @Summary List interests by category
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.InterestCategory
// @Router /catalog/interests [get]
func (h *CatalogHandler) Interests(c *gin.Context) {
	interests, err := h.catalogUseCase.Interests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interests)
}

// Prompts handles GET /catalog/prompts
// @Summary List profile prompts
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Prompt
// @Router /catalog/prompts [get]
func (h *CatalogHandler) Prompts(c *gin.Context) {
	prompts, err := h.catalogUseCase.Prompts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompts)
}
