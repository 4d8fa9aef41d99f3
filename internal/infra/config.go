package infra

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	NodeEnv string `env:"NODE_ENV"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"3000"`

	PrivateKey string        `env:"PRIVATE_KEY"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"mongo"`
	DBUsername    string `env:"DB_USERNAME"`
	DBPassword    string `env:"DB_PASSWORD"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"crowdfund"`
	DatabaseURL   string `env:"DATABASE_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`
	GeoIPDBPath        string   `env:"GEOIP_DB_PATH"`
	DefaultLocale      string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	SupportedLocales   []string `env:"SUPPORTED_LOCALES" envSeparator:"," envDefault:"en"`
	LoginRatePerMin    int      `env:"LOGIN_RATE_PER_MINUTE" envDefault:"30"`
	TrustProxyHeaders  bool     `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	LogLevel           string   `env:"LOG_LEVEL"`

	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, fmt.Errorf("PRIVATE_KEY is required")
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreMongo:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	origins := cfg.CORSAllowedOrigins[:0]
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.CORSAllowedOrigins = origins

	return &cfg, nil
}

// Environment returns NODE_ENV when set, otherwise APP_ENV.
func (c *Config) Environment() string {
	if v := strings.TrimSpace(c.NodeEnv); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(strings.TrimSpace(c.AppEnv))
}

// IsProduction selects the cross-site session cookie policy.
func (c *Config) IsProduction() bool {
	return c.Environment() == "production"
}

// MongoConnectionURI returns MongoURI with DB_USERNAME/DB_PASSWORD applied
// when both are set and the URI carries no credentials of its own.
func (c *Config) MongoConnectionURI() (string, error) {
	u, err := url.Parse(c.MongoURI)
	if err != nil {
		return "", fmt.Errorf("parse MONGO_URI: %w", err)
	}
	if u.User == nil && c.DBUsername != "" && c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUsername, c.DBPassword)
	}
	return u.String(), nil
}
