package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/onboarding"
	"github.com/gin-gonic/gin"
)

const sniffLen = 512

type OnboardingHandler struct {
	onboardingUseCase *onboarding.Usecase
	maxUploadSize     int64
}

func NewOnboardingHandler(onboardingUseCase *onboarding.Usecase, maxUploadSize int64) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingUseCase: onboardingUseCase,
		maxUploadSize:     maxUploadSize,
	}
}

// Start handles POST /onboarding/start
// @Summary Start onboarding
// @Description Open an onboarding session or resume the one in progress
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateView
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /onboarding/start [post]
func (h *OnboardingHandler) Start(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	view, err := h.onboardingUseCase.Start(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// State handles GET /onboarding/state
// @Summary Get onboarding state
// @Description Current step and draft. A location query resolves the step from a client route.
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Param location query string false "Client route, e.g. /onboarding/gender"
// @Success 200 {object} onboarding.StateView
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /onboarding/state [get]
func (h *OnboardingHandler) State(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	view, err := h.onboardingUseCase.State(c.Request.Context(), identity, c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Status handles GET /onboarding/status
// @Summary Get onboarding status
// @Description Persisted onboarding progress for the current user
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StatusView
// @Failure 401 {object} ErrorResponse
// @Router /onboarding/status [get]
func (h *OnboardingHandler) Status(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	status, err := h.onboardingUseCase.Status(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SubmitStep handles POST /onboarding/steps/:step
// @Summary Submit a step
// @Description Validate and store one step's answers, then advance
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param step path string true "Step name"
// @Success 200 {object} onboarding.StepResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /onboarding/steps/{step} [post]
func (h *OnboardingHandler) SubmitStep(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.onboardingUseCase.SubmitStep(c.Request.Context(), identity, domain.OnboardingStep(c.Param("step")), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GoTo handles POST /onboarding/goto/:step
// @Summary Jump to a step
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Param step path string true "Step name"
// @Success 200 {object} onboarding.StateView
// @Failure 404 {object} ErrorResponse
// @Router /onboarding/goto/{step} [post]
func (h *OnboardingHandler) GoTo(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	view, err := h.onboardingUseCase.GoTo(c.Request.Context(), identity, domain.OnboardingStep(c.Param("step")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UploadPhoto handles POST /onboarding/photos
// @Summary Upload a photo
// @Description Store one image for the photos step. The returned URL and path go into the photos step payload.
// @Tags onboarding
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Image"
// @Success 201 {object} storage.Object
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /onboarding/photos [post]
func (h *OnboardingHandler) UploadPhoto(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	if h.maxUploadSize > 0 {
		if c.Request.ContentLength > h.maxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "photo is too large", Field: "photo"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "photo is too large", Field: "photo"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo is required", Field: "photo"})
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read photo", Field: "photo"})
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	obj, err := h.onboardingUseCase.UploadPhoto(
		c.Request.Context(),
		identity,
		io.MultiReader(bytes.NewReader(head), file),
		contentType,
		filepath.Ext(header.Filename),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}
