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

// Store drivers.
const (
	StoreDriverAirtable = "airtable"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Schema    Schema
	Identity  IdentityConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
	Cache     CacheConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Calendar  CalendarConfig
}

// StoreConfig points the service at the external record store.
type StoreConfig struct {
	Driver     string
	Token      string
	BaseURL    string
	Timeout    time.Duration
	GetRetries int
	SchemaFile string

	ContactBaseID   string
	InvoicingBaseID string
	ReportsBaseID   string
	ReportsTableID  string
	ScheduleBaseID  string
}

// IdentityConfig controls Google credential handling.
type IdentityConfig struct {
	GoogleClientID  string
	VerifySignature bool
	CertsURL        string
	RefreshInterval time.Duration
	RoleCacheTTL    time.Duration
}

// SchedulerConfig tunes availability submission behaviour.
type SchedulerConfig struct {
	PreWriteCheck   bool
	DefaultTimezone string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles the Redis-backed lookup cache.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// CalendarConfig configures signed calendar feed links.
type CalendarConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
	PublicBaseURL   string
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

	cfg.Store = StoreConfig{
		Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		Token:           v.GetString("AIRTABLE_PERSONAL_ACCESS_TOKEN"),
		BaseURL:         v.GetString("AIRTABLE_BASE_URL"),
		Timeout:         parseDuration(v.GetString("AIRTABLE_TIMEOUT"), 10*time.Second),
		GetRetries:      v.GetInt("AIRTABLE_GET_RETRIES"),
		SchemaFile:      v.GetString("STORE_SCHEMA_FILE"),
		ContactBaseID:   v.GetString("CONTACT_BASE_ID"),
		InvoicingBaseID: v.GetString("INVOICING_BASE_ID"),
		ReportsBaseID:   v.GetString("REPORTS_BASE_ID"),
		ReportsTableID:  v.GetString("REPORTS_TABLE_ID"),
		ScheduleBaseID:  v.GetString("SCHEDULE_BASE_ID"),
	}

	cfg.Identity = IdentityConfig{
		GoogleClientID:  v.GetString("GOOGLE_CLIENT_ID"),
		VerifySignature: v.GetBool("IDENTITY_VERIFY_SIGNATURE"),
		CertsURL:        v.GetString("IDENTITY_CERTS_URL"),
		RefreshInterval: parseDuration(v.GetString("IDENTITY_CERTS_REFRESH_INTERVAL"), time.Minute),
		RoleCacheTTL:    parseDuration(v.GetString("ROLE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Scheduler = SchedulerConfig{
		PreWriteCheck:   v.GetBool("SCHEDULER_PREWRITE_CHECK"),
		DefaultTimezone: v.GetString("SCHEDULER_DEFAULT_TIMEZONE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		DefaultTTL: parseDuration(v.GetString("CACHE_DEFAULT_TTL"), 10*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:           v.GetBool("ENABLE_RATE_LIMIT"),
		RequestsPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		Burst:             v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Calendar = CalendarConfig{
		SignedURLSecret: v.GetString("CALENDAR_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("CALENDAR_LINK_TTL"), 30*24*time.Hour),
		PublicBaseURL:   strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
	}

	schema, err := LoadSchema(cfg.Store.SchemaFile)
	if err != nil {
		return nil, err
	}
	cfg.Schema = schema

	return cfg, nil
}

// MissingStoreIdentifiers lists the record-store settings that are still empty.
func (c *Config) MissingStoreIdentifiers() []string {
	if c.Store.Driver == StoreDriverMemory {
		return nil
	}
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("AIRTABLE_PERSONAL_ACCESS_TOKEN", c.Store.Token)
	check("CONTACT_BASE_ID", c.Store.ContactBaseID)
	check("INVOICING_BASE_ID", c.Store.InvoicingBaseID)
	check("REPORTS_BASE_ID", c.Store.ReportsBaseID)
	check("REPORTS_TABLE_ID", c.Store.ReportsTableID)
	check("SCHEDULE_BASE_ID", c.Store.ScheduleBaseID)
	return missing
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3002)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("STORE_DRIVER", StoreDriverAirtable)
	v.SetDefault("AIRTABLE_PERSONAL_ACCESS_TOKEN", "")
	v.SetDefault("AIRTABLE_BASE_URL", "https://api.airtable.com/v0")
	v.SetDefault("AIRTABLE_TIMEOUT", "10s")
	v.SetDefault("AIRTABLE_GET_RETRIES", 1)
	v.SetDefault("STORE_SCHEMA_FILE", "")
	v.SetDefault("CONTACT_BASE_ID", "")
	v.SetDefault("INVOICING_BASE_ID", "")
	v.SetDefault("REPORTS_BASE_ID", "")
	v.SetDefault("REPORTS_TABLE_ID", "")
	v.SetDefault("SCHEDULE_BASE_ID", "")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("IDENTITY_VERIFY_SIGNATURE", true)
	v.SetDefault("IDENTITY_CERTS_URL", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("IDENTITY_CERTS_REFRESH_INTERVAL", "1m")
	v.SetDefault("ROLE_CACHE_TTL", "10m")

	v.SetDefault("SCHEDULER_PREWRITE_CHECK", true)
	v.SetDefault("SCHEDULER_DEFAULT_TIMEZONE", "UTC")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_DEFAULT_TTL", "10m")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,https://riseresearch.vercel.app,https://rise-research-xa8a.vercel.app")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("CALENDAR_SIGNED_URL_SECRET", "dev_calendar_secret")
	v.SetDefault("CALENDAR_LINK_TTL", "720h")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3002")
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
