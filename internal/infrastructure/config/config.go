package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Login      LoginConfig
	Audit      AuditConfig
	SuperAdmin SuperAdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=coffeetica"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	FailureWindow        time.Duration `env:"LOGIN_FAILURE_WINDOW,         default=15m"`
	FailureWarnThreshold int64         `env:"LOGIN_FAILURE_WARN_THRESHOLD, default=5"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// SuperAdminConfig names the account seeded on startup. Bootstrapping is
// skipped when any field is empty.
type SuperAdminConfig struct {
	Username string `env:"SUPERADMIN_USERNAME"`
	Email    string `env:"SUPERADMIN_EMAIL"`
	Password string `env:"SUPERADMIN_PASSWORD"`
}

func (c SuperAdminConfig) Enabled() bool {
	return c.Username != "" && c.Email != "" && c.Password != ""
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction reports whether the service runs in production. Only then are
// plain HTTP requests redirected to HTTPS.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	return &cfg, nil
}
