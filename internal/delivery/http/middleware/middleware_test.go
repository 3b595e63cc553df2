package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubVerifier map[string]error

func (s stubVerifier) VerifyToken(ctx context.Context, token string) (domain.Identity, error) {
	if err, ok := s[token]; ok {
		return domain.Identity{}, err
	}
	return domain.Identity{AuthUserID: "auth-" + token, Phone: "+15550001111"}, nil
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := stubVerifier{
		"bad":     domain.ErrInvalidToken,
		"old":     domain.ErrSessionExpired,
		"gone":    domain.ErrSessionNotFound,
		"db-down": errors.New("connection refused"),
	}

	router := gin.New()
	router.GET("/me", NewAuthMiddleware(verifier).RequireAuth(), func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": identity.AuthUserID, "token": Token(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "invalid authorization format"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"expired session", "Bearer old", http.StatusUnauthorized, "session expired"},
		{"logged out", "Bearer gone", http.StatusUnauthorized, "session not found"},
		{"store failure", "Bearer db-down", http.StatusInternalServerError, "failed to verify token"},
		{"valid", "Bearer ok", http.StatusOK, `"id":"auth-ok"`},
		{"lowercase scheme", "bearer ok", http.StatusOK, `"token":"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db exploded"))
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Contains(t, entries[1].ContextMap()["errors"], "db exploded")
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, int64(404), entries[2].ContextMap()["status"])
	}
}
