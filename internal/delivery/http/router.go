package http

import (
	"net/http"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/handler"
	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/middleware"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	authHandler       *handler.AuthHandler
	onboardingHandler *handler.OnboardingHandler
	profileHandler    *handler.ProfileHandler
	catalogHandler    *handler.CatalogHandler
	uploadHandler     *handler.UploadHandler
	authMiddleware    *middleware.AuthMiddleware
	metrics           *metrics.Registry
	allowedOrigins    []string
	logger            *zap.Logger
}

type Handlers struct {
	Auth       *handler.AuthHandler
	Onboarding *handler.OnboardingHandler
	Profile    *handler.ProfileHandler
	Catalog    *handler.CatalogHandler
	// Uploads is set only when photos are kept in process.
	Uploads *handler.UploadHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	registry *metrics.Registry,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		authHandler:       handlers.Auth,
		onboardingHandler: handlers.Onboarding,
		profileHandler:    handlers.Profile,
		catalogHandler:    handlers.Catalog,
		uploadHandler:     handlers.Uploads,
		authMiddleware:    authMiddleware,
		metrics:           registry,
		allowedOrigins:    allowedOrigins,
		logger:            logger,
	}
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(r.allowedOrigins) == 0 || (len(r.allowedOrigins) == 1 && r.allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = r.allowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(r.logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(r.corsConfig()))
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.uploadHandler != nil {
		router.GET("/uploads/*key", r.uploadHandler.Serve)
		router.HEAD("/uploads/*key", r.uploadHandler.Serve)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/otp/request", r.authHandler.RequestCode)
			auth.POST("/otp/verify", r.authHandler.VerifyCode)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Catalogs (public)
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/areas", r.catalogHandler.Areas)
			catalog.GET("/interests", r.catalogHandler.Interests)
			catalog.GET("/prompts", r.catalogHandler.Prompts)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			onboarding := protected.Group("/onboarding")
			{
				onboarding.POST("/start", r.onboardingHandler.Start)
				onboarding.GET("/state", r.onboardingHandler.State)
				onboarding.GET("/status", r.onboardingHandler.Status)
				onboarding.POST("/steps/:step", r.onboardingHandler.SubmitStep)
				onboarding.POST("/goto/:step", r.onboardingHandler.GoTo)
				onboarding.POST("/photos", r.onboardingHandler.UploadPhoto)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me/app-preferences", r.profileHandler.UpdateAppPreferences)
				profile.POST("/generate-bio", r.profileHandler.GenerateBio)
			}
		}
	}

	return router
}
