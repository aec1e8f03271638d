package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prize_wheel/internal/game"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/service"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
)

type Config struct {
	AppPort   string
	JWTSecret string
	LogLevel  string
	LogJSON   bool

	// Recent winners persistence
	StoreDriver   string
	StatePath     string
	StorageKey    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDatabase string

	CataloguePath string

	// Wheel timings
	SpinDuration        time.Duration
	ExtraTurns          int
	FrameInterval       time.Duration
	CelebrationDuration time.Duration
	LossDuration        time.Duration
	FreeSpinClearDelay  time.Duration
	FreeSpinRearmDelay  time.Duration
	RetryClearDelay     time.Duration

	AllowedOrigin  string
	WSMaxPerWallet int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  int
	SpinRateLimit  int
	SpinRateWindow int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv reads the configuration from the process environment
func FromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	cfg := &Config{
		AppPort:       envString("APP_PORT", "8080"),
		JWTSecret:     jwtSecret,
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		StoreDriver:   strings.ToLower(envString("STORE_DRIVER", StoreFile)),
		StatePath:     envString("STATE_PATH", "data/state.json"),
		StorageKey:    envString("STORAGE_KEY", "recentWins"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: envString("MONGO_DATABASE", "prize_wheel"),
		CataloguePath: os.Getenv("CATALOGUE_PATH"),

		SpinDuration:        envMillis("SPIN_DURATION_MS", 4000),
		ExtraTurns:          envInt("EXTRA_TURNS", game.DefaultExtraTurns),
		FrameInterval:       envMillis("FRAME_INTERVAL_MS", 16),
		CelebrationDuration: envMillis("CELEBRATION_MS", 2000),
		LossDuration:        envMillis("LOSS_MS", 2500),
		FreeSpinClearDelay:  envMillis("FREE_SPIN_CLEAR_MS", 1000),
		FreeSpinRearmDelay:  envMillis("FREE_SPIN_REARM_MS", 1000),
		RetryClearDelay:     envMillis("RETRY_CLEAR_MS", 2000),

		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		WSMaxPerWallet: envInt("WS_MAX_PER_WALLET", 4),

		APIRateLimit:   envPositive("API_RATE_LIMIT", 60),
		APIRateWindow:  envPositive("API_RATE_WINDOW_SECONDS", 60),
		SpinRateLimit:  envPositive("SPIN_RATE_LIMIT", 30),
		SpinRateWindow: envPositive("SPIN_RATE_WINDOW_SECONDS", 60),
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreFile:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("REDIS_ADDR is required for the redis store")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required for the mongo store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.ExtraTurns < 0 {
		return nil, fmt.Errorf("EXTRA_TURNS must not be negative, got %d", cfg.ExtraTurns)
	}
	if cfg.SpinDuration <= 0 || cfg.FrameInterval <= 0 {
		return nil, errors.New("SPIN_DURATION_MS and FRAME_INTERVAL_MS must be positive")
	}

	return cfg, nil
}

// Session returns the wheel timings for new sessions
func (c *Config) Session() service.SessionConfig {
	return service.SessionConfig{
		SpinDuration:        c.SpinDuration,
		ExtraTurns:          c.ExtraTurns,
		CelebrationDuration: c.CelebrationDuration,
		LossDuration:        c.LossDuration,
		FreeSpinClearDelay:  c.FreeSpinClearDelay,
		FreeSpinRearmDelay:  c.FreeSpinRearmDelay,
		RetryClearDelay:     c.RetryClearDelay,
	}
}

// LoadCatalogue reads the YAML segment list at path. An empty path yields the
// built-in catalogue.
func LoadCatalogue(path string) (*game.Catalogue, error) {
	if path == "" {
		return game.DefaultCatalogue(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return ParseCatalogue(b)
}

// ParseCatalogue decodes a YAML list of {label, weight, kind} and validates it
func ParseCatalogue(b []byte) (*game.Catalogue, error) {
	var segments []game.Segment
	if err := yaml.Unmarshal(b, &segments); err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidCatalogue, err)
	}
	return game.NewCatalogue(segments)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envPositive falls back to def for zero, negative or malformed values
func envPositive(key string, def int) int {
	if n := envInt(key, def); n > 0 {
		return n
	}
	return def
}

func envMillis(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Millisecond
}
