package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Storage backends.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// JWTConfig defines issuer/secret pair for auth verification. The first
// entry signs new tokens.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// AdminConfig describes the account seeded into an empty user store.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	Storage            string
	MongoURI           string
	MongoDatabase      string
	FormCollection     string
	FeedbackCollection string
	UserCollection     string
	Timeout            time.Duration
	Timezone           string
	Logger             *zap.SugaredLogger
	JWTConfigs         []JWTConfig
	JWTAudience        string
	TokenTTL           time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	AllowedOrigins     []string
	DefaultAdmin       AdminConfig
	Env                string
}

// Load reads .env (when present) and environment variables and returns a
// fully populated Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := envOrDefault("APP_ENV", "production")
	logger, err := NewLogger(env, envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	storage := strings.ToLower(envOrDefault("STORAGE", StorageMongo))
	if storage != StorageMongo && storage != StorageMemory {
		return Config{}, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, storage)
	}

	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("AUTH_JWT_SECRET must be configured")
	}
	issuer := envOrDefault("AUTH_JWT_ISSUER", "feedback-forms")
	jwtConfigs := []JWTConfig{{Issuer: issuer, Secret: []byte(secret)}}
	for _, previous := range parseList("AUTH_JWT_PREVIOUS_SECRETS", nil) {
		jwtConfigs = append(jwtConfigs, JWTConfig{Issuer: issuer, Secret: []byte(previous)})
	}

	redisDB := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
		redisDB = parsed
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		Storage:            storage,
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "feedback-forms"),
		FormCollection:     envOrDefault("FORM_COLLECTION", "forms"),
		FeedbackCollection: envOrDefault("FEEDBACK_COLLECTION", "feedbacks"),
		UserCollection:     envOrDefault("USER_COLLECTION", "users"),
		Timeout:            durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		Timezone:           envOrDefault("TIMEZONE", "UTC"),
		Logger:             logger,
		JWTConfigs:         jwtConfigs,
		JWTAudience:        strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		TokenTTL:           durationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		DefaultAdmin: AdminConfig{
			Email:    envOrDefault("DEFAULT_ADMIN_EMAIL", "admin@feedback.com"),
			Password: envOrDefault("DEFAULT_ADMIN_PASSWORD", "password"),
			Name:     envOrDefault("DEFAULT_ADMIN_NAME", "Admin"),
		},
		Env: env,
	}

	logger.Infow("loaded config",
		"addr", cfg.Addr,
		"storage", cfg.Storage,
		"mongoDB", cfg.MongoDatabase,
		"timezone", cfg.Timezone,
		"jwtKeys", len(cfg.JWTConfigs),
		"redis", cfg.RedisAddr != "",
	)
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warnw("unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		}
		return time.UTC
	}
	return loc
}

// NewLogger builds the process logger. APP_ENV=development switches to the
// human-readable console encoder.
func NewLogger(env, level string) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	if strings.EqualFold(env, "development") {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar().Named("feedback-api"), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
