package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mathtutor-backend/internal/pkg/envutil"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	Env     string `yaml:"env"`
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	StorageBackend string `yaml:"storage_backend"`
	SQLitePath     string `yaml:"sqlite_path"`
	PostgresDSN    string `yaml:"postgres_dsn"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisPrefix    string `yaml:"redis_prefix"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	ShareBaseURL  string `yaml:"share_base_url"`
	ShareCardFont string `yaml:"share_card_font"`

	CORSOrigins []string `yaml:"cors_origins"`

	WorkspaceIdleTTL time.Duration `yaml:"workspace_idle_ttl"`
	SweepInterval    time.Duration `yaml:"sweep_interval"`

	MetricsEnabled bool `yaml:"metrics_enabled"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
	ServiceName     string  `yaml:"service_name"`
	Version         string  `yaml:"version"`
}

func defaultConfig() Config {
	return Config{
		Env:              "development",
		Port:             "8080",
		LogMode:          "development",
		StorageBackend:   StorageSQLite,
		SQLitePath:       "data/mathtutor.db",
		RedisPrefix:      "mathtutor",
		SessionTTL:       30 * 24 * time.Hour,
		ShareBaseURL:     "http://localhost:5173/",
		WorkspaceIdleTTL: 2 * time.Hour,
		SweepInterval:    5 * time.Minute,
		OtelSampleRatio:  0.1,
		ServiceName:      "mathtutor",
		Version:          "dev",
	}
}

// LoadConfig reads the optional YAML file named by CONFIG_FILE and then
// applies environment overrides. log may be nil.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.GeminiAPIKey = envutil.String("GEMINI_API_KEY", envutil.String("API_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = envutil.String("GEMINI_MODEL", cfg.GeminiModel)

	cfg.StorageBackend = strings.ToLower(envutil.String("STORAGE_BACKEND", cfg.StorageBackend))
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.PostgresDSN = envutil.String("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envutil.String("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envutil.Int("REDIS_DB", cfg.RedisDB)
	cfg.RedisPrefix = envutil.String("REDIS_PREFIX", cfg.RedisPrefix)

	cfg.SessionSecret = envutil.String("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = envutil.Duration("SESSION_TTL", cfg.SessionTTL)

	cfg.ShareBaseURL = envutil.String("SHARE_BASE_URL", cfg.ShareBaseURL)
	cfg.ShareCardFont = envutil.String("SHARE_CARD_FONT", cfg.ShareCardFont)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.WorkspaceIdleTTL = envutil.Duration("WORKSPACE_IDLE_TTL", cfg.WorkspaceIdleTTL)
	cfg.SweepInterval = envutil.Duration("WORKSPACE_SWEEP_INTERVAL", cfg.SweepInterval)

	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	cfg.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.OtelEnabled)
	cfg.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OtelEndpoint)
	cfg.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.OtelHeaders)
	cfg.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OtelInsecure)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)
	if raw := envutil.String("OTEL_SAMPLER_RATIO", ""); raw != "" {
		var r float64
		if _, err := fmt.Sscanf(raw, "%g", &r); err == nil {
			cfg.OtelSampleRatio = r
		}
	}
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case StorageSQLite, StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires POSTGRES_DSN")
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("STORAGE_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("missing SESSION_SECRET")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
