package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Compare   CompareServiceConfig
	Timetable TimetableConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs Redis caching of schedule loads and comparison trees.
type CacheConfig struct {
	Enabled       bool
	ScheduleTTL   time.Duration
	ComparisonTTL time.Duration
}

// CompareServiceConfig points at the external snapshot comparison service.
type CompareServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TimetableConfig holds engine defaults.
type TimetableConfig struct {
	DefaultMinPair int
	DefaultMaxPair int
	ExportTitle    string
	// ExportFontPath is a UTF-8 TrueType font used for PDF exports.
	ExportFontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:       v.GetBool("ENABLE_CACHE"),
		ScheduleTTL:   parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 5*time.Minute),
		ComparisonTTL: parseDuration(v.GetString("COMPARISON_CACHE_TTL"), time.Hour),
	}

	cfg.Compare = CompareServiceConfig{
		BaseURL: strings.TrimRight(v.GetString("COMPARE_SERVICE_URL"), "/"),
		Timeout: parseDuration(v.GetString("COMPARE_SERVICE_TIMEOUT"), 10*time.Second),
	}

	cfg.Timetable = TimetableConfig{
		DefaultMinPair: v.GetInt("DEFAULT_MIN_PAIR"),
		DefaultMaxPair: v.GetInt("DEFAULT_MAX_PAIR"),
		ExportTitle:    v.GetString("EXPORT_TITLE"),
		ExportFontPath: v.GetString("EXPORT_FONT_PATH"),
	}
	if cfg.Timetable.DefaultMinPair < 1 || cfg.Timetable.DefaultMinPair > 7 {
		cfg.Timetable.DefaultMinPair = 1
	}
	if cfg.Timetable.DefaultMaxPair < cfg.Timetable.DefaultMinPair || cfg.Timetable.DefaultMaxPair > 7 {
		cfg.Timetable.DefaultMaxPair = 7
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("SCHEDULE_CACHE_TTL", "5m")
	v.SetDefault("COMPARISON_CACHE_TTL", "1h")

	v.SetDefault("COMPARE_SERVICE_URL", "http://localhost:8000/api")
	v.SetDefault("COMPARE_SERVICE_TIMEOUT", "10s")

	v.SetDefault("DEFAULT_MIN_PAIR", 1)
	v.SetDefault("DEFAULT_MAX_PAIR", 7)
	v.SetDefault("EXPORT_TITLE", "Общие свободные пары")
	v.SetDefault("EXPORT_FONT_PATH", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
