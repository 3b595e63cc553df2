package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/gdugdh24/dating-onboarding/internal/delivery/http"
	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/handler"
	"github.com/gdugdh24/dating-onboarding/internal/delivery/http/middleware"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/database"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/gemini"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/metrics"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/server"
	"github.com/gdugdh24/dating-onboarding/internal/infrastructure/storage"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/gdugdh24/dating-onboarding/internal/repository/memory"
	"github.com/gdugdh24/dating-onboarding/internal/repository/postgres"
	redisrepo "github.com/gdugdh24/dating-onboarding/internal/repository/redis"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/auth"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/catalog"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/onboarding"
	"github.com/gdugdh24/dating-onboarding/internal/usecase/profile"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client
	Server  *server.Server
	Gemini  *gemini.GeminiClient
	Metrics *metrics.Registry
	Logger  *zap.Logger
}

// repositories is one backend's set of stores.
type repositories struct {
	tx          repository.Transactor
	users       repository.UserRepository
	identities  repository.AuthRepository
	sessions    repository.SessionRepository
	profiles    repository.ProfileRepository
	preferences repository.PreferencesRepository
	photos      repository.PhotoRepository
	areas       repository.AreaRepository
	interests   repository.InterestRepository
	prompts     repository.PromptRepository
	drafts      repository.DraftRepository
	codes       repository.CodeRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Metrics: metrics.New()}

	repos, err := c.initRepositories(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	photoStorage, err := newPhotoStorage(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var bio profile.BioGenerator
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			// Don't fail, just continue without AI features
			logger.Warn("failed to initialize gemini client", zap.Error(err))
		} else {
			c.Gemini = geminiClient
			bio = geminiClient
		}
	}

	// Initialize use cases
	authUseCase := auth.NewPhoneAuthUseCase(auth.Deps{
		Identities: repos.identities,
		Users:      repos.users,
		Sessions:   repos.sessions,
		Codes:      repos.codes,
		Sender:     auth.NewLogSender(logger),
	}, cfg.Auth, cfg.JWT, logger)

	flow, err := onboarding.NewCanonicalFlow(logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to build onboarding flow: %w", err)
	}
	reconciler := onboarding.NewReconciler(onboarding.ReconcilerDeps{
		Transactor:  repos.tx,
		Users:       repos.users,
		Profiles:    repos.profiles,
		Preferences: repos.preferences,
		Photos:      repos.photos,
		Interests:   repos.interests,
		Prompts:     repos.prompts,
	}, logger)
	onboardingUseCase := onboarding.NewUsecase(onboarding.Deps{
		Flow:        flow,
		Reconciler:  reconciler,
		Drafts:      repos.drafts,
		Areas:       repos.areas,
		Interests:   repos.interests,
		Prompts:     repos.prompts,
		Preferences: repos.preferences,
		Storage:     photoStorage,
		Metrics:     c.Metrics,
	}, cfg.Onboarding, logger)

	profileUseCase := profile.NewProfileUseCase(profile.Deps{
		Users:       repos.users,
		Profiles:    repos.profiles,
		Preferences: repos.preferences,
		Photos:      repos.photos,
		Interests:   repos.interests,
		Prompts:     repos.prompts,
		Bio:         bio,
	}, logger)

	catalogUseCase := catalog.NewCatalogUseCase(repos.areas, repos.interests, repos.prompts)

	handlers := http.Handlers{
		Auth:       handler.NewAuthHandler(authUseCase),
		Onboarding: handler.NewOnboardingHandler(onboardingUseCase, cfg.Storage.MaxUploadSize),
		Profile:    handler.NewProfileHandler(profileUseCase),
		Catalog:    handler.NewCatalogHandler(catalogUseCase),
	}
	if mem, ok := photoStorage.(*storage.MemoryStorage); ok {
		handlers.Uploads = handler.NewUploadHandler(mem)
	}

	// Initialize router
	router := http.NewRouter(
		handlers,
		middleware.NewAuthMiddleware(authUseCase),
		c.Metrics,
		cfg.Server.AllowedOrigins,
		logger,
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)
	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) (*repositories, error) {
	cfg := c.Config
	var store *memory.Store
	memoryStore := func() *memory.Store {
		if store == nil {
			store = memory.NewStore()
		}
		return store
	}

	repos := &repositories{}
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if cfg.Database.MigrateOnBoot {
			if err := database.Migrate(db, c.Logger); err != nil {
				return nil, err
			}
		}
		repos.tx = postgres.NewTxManager(db)
		repos.users = postgres.NewUserRepository(db)
		repos.identities = postgres.NewAuthRepository(db)
		repos.sessions = postgres.NewSessionRepository(db)
		repos.profiles = postgres.NewProfileRepository(db)
		repos.preferences = postgres.NewPreferencesRepository(db)
		repos.photos = postgres.NewPhotoRepository(db)
		repos.areas = postgres.NewAreaRepository(db)
		repos.interests = postgres.NewInterestRepository(db)
		repos.prompts = postgres.NewPromptRepository(db)
	case config.DriverMemory:
		s := memoryStore()
		s.SeedDefaults()
		c.Logger.Warn("using in-memory relational store, data is lost on restart")
		repos.tx = memory.NewTransactor(s)
		repos.users = memory.NewUserRepository(s)
		repos.identities = memory.NewAuthRepository(s)
		repos.sessions = memory.NewSessionRepository(s)
		repos.profiles = memory.NewProfileRepository(s)
		repos.preferences = memory.NewPreferencesRepository(s)
		repos.photos = memory.NewPhotoRepository(s)
		repos.areas = memory.NewAreaRepository(s)
		repos.interests = memory.NewInterestRepository(s)
		repos.prompts = memory.NewPromptRepository(s)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	switch cfg.Redis.Driver {
	case config.DriverRedis:
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = client
		repos.drafts = redisrepo.NewDraftRepository(client, cfg.Onboarding.DraftTTL)
		repos.codes = redisrepo.NewCodeRepository(client)
	case config.DriverMemory:
		s := memoryStore()
		repos.drafts = memory.NewDraftRepository(s, cfg.Onboarding.DraftTTL)
		repos.codes = memory.NewCodeRepository(s)
	default:
		return nil, fmt.Errorf("unknown redis driver %q", cfg.Redis.Driver)
	}

	return repos, nil
}

func newPhotoStorage(ctx context.Context, cfg *config.Config) (onboarding.PhotoStorage, error) {
	switch cfg.Storage.Type {
	case config.StorageS3:
		return storage.NewS3Storage(ctx, cfg.Storage)
	case config.StorageMemory:
		baseURL := cfg.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://%s/uploads", cfg.Server.GetAddr())
		}
		return storage.NewMemoryStorage(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("error closing redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
