package handler

import (
	"net/http"

	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/middleware"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase *auth.PhoneAuthUseCase
}

func NewAuthHandler(authUseCase *auth.PhoneAuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// RequestCodeRequest represents a verification code request
type RequestCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyCodeRequest represents a verification code check
type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,numeric,min=4,max=8"`
}

// AuthResponse is the response structure
type AuthResponse struct {
	Token           string      `json:"token"`
	ExpiresAt       int64       `json:"expires_at"`
	Identity        interface{} `json:"identity"`
	IsNewUser       bool        `json:"is_new_user"`
	NeedsOnboarding bool        `json:"needs_onboarding"`
}

// RequestCode sends a one-time code to a phone
// @Summary Request verification code
// @Description Send a one-time code to the given phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Phone in international format"
// @Success 200 {object} auth.CodeRequest
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/otp/request [post]
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authUseCase.RequestCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyCode exchanges a code for a session token
// @Summary Verify code
// @Description Verify the one-time code and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Phone and code"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.authUseCase.VerifyCode(c.Request.Context(), req.Phone, req.Code, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:           result.Token,
		ExpiresAt:       result.ExpiresAt.Unix(),
		Identity:        result.Identity,
		IsNewUser:       result.IsNewUser,
		NeedsOnboarding: result.NeedsOnboarding,
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Logout user and invalidate session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUseCase.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out successfully",
	})
}

// Me returns current user info
// @Summary Get current user
// @Description Get the authenticated identity and its onboarding state
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} auth.MeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	me, err := h.authUseCase.Me(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
