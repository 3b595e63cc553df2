package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/middleware"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// respondError maps use case errors onto HTTP statuses. Unexpected errors are
// attached to the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		perr *domain.ProfileCreationError
		rerr *domain.RemoteWriteError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &perr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: perr.Error()})
	case errors.Is(err, domain.ErrSessionMissing),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCodeExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownStep),
		errors.Is(err, domain.ErrAreaNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrIdentityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOnboardingIncomplete),
		errors.Is(err, domain.ErrOnboardingNotStarted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, profile.ErrBioUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.As(err, &rerr):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not save your changes, please try again"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// currentIdentity reads the authenticated identity or answers 401.
func currentIdentity(c *gin.Context) (domain.Identity, bool) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return domain.Identity{}, false
	}
	return identity, true
}
