package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database:   DatabaseConfig{Driver: DriverMemory},
		Redis:      RedisConfig{Driver: DriverMemory},
		JWT:        JWTConfig{Secret: "0123456789abcdef0123456789abcdef", SessionTTL: time.Hour},
		Auth:       AuthConfig{CodeLength: 6, CodeTTL: time.Minute, MaxAttempts: 5},
		Storage:    StorageConfig{Type: StorageMemory},
		Onboarding: OnboardingConfig{DraftTTL: time.Hour, MinAge: 18, MaxAge: 100},
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("REDIS_DRIVER", DriverMemory)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 5*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)
	assert.Equal(t, 6, cfg.Auth.CodeLength)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Onboarding.DraftTTL)
	assert.Equal(t, 18, cfg.Onboarding.MinAge)
	assert.Equal(t, 100, cfg.Onboarding.MaxAge)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 3*time.Second, cfg.Redis.ReadTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "dating")
	t.Setenv("REDIS_DRIVER", DriverMemory)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("REDIS_POOL_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, "host=db port=5432 user=app password= dbname=dating sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, 40, cfg.Database.MaxOpenConns)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "postgres without host",
			mutate:  func(c *Config) { c.Database.Driver = DriverPostgres },
			wantErr: "database host is required",
		},
		{
			name:    "unknown database driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "unknown database driver",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWT.Secret = "short" },
			wantErr: "JWT secret must be at least 32 characters",
		},
		{
			name:    "code length out of range",
			mutate:  func(c *Config) { c.Auth.CodeLength = 10 },
			wantErr: "OTP code length",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage.Type = StorageS3 },
			wantErr: "storage bucket and endpoint are required",
		},
		{
			name: "s3 without credentials",
			mutate: func(c *Config) {
				c.Storage.Type = StorageS3
				c.Storage.Bucket = "photos"
				c.Storage.Endpoint = "https://r2.example.com"
			},
			wantErr: "storage credentials are required",
		},
		{
			name:    "min age below 18",
			mutate:  func(c *Config) { c.Onboarding.MinAge = 16 },
			wantErr: "minimum age must be at least 18",
		},
		{
			name:    "max age not above min",
			mutate:  func(c *Config) { c.Onboarding.MaxAge = 18 },
			wantErr: "maximum age must be greater than minimum age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
