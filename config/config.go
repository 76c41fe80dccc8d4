package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via the config file or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis for caching, token blacklist, oauth state and abuse limits
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// OAuth providers
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Moderation / tag prediction collaborator
	ModerationServiceURL string

	// HTTP surface
	AllowedOrigins     []string
	RateLimitPerMinute int
	GinMode            string
	GinPath            string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Registration abuse guard
	RegisterMaxPerIPPerDay     int
	RegisterAttemptCooldownSec int
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
// Precedence: config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads a flat JSON file into cfg if present. Returns an error
// only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // missing file is fine
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	setStr := func(key string, dst *string) {
		if v, ok := raw[key].(string); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := raw[key].(float64); ok {
			*dst = int(v)
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := raw[key].(bool); ok {
			*dst = v
		}
	}

	setStr("app_port", &out.AppPort)
	setStr("jwt_secret", &out.JWTSecret)
	setStr("database_uri", &out.DatabaseURI)
	setStr("db_host", &out.DBHost)
	setStr("db_port", &out.DBPort)
	setStr("db_user", &out.DBUser)
	setStr("db_password", &out.DBPassword)
	setStr("db_name", &out.DBName)
	setStr("redis_host", &out.RedisHost)
	setInt("redis_port", &out.RedisPort)
	setInt("redis_db", &out.RedisDB)
	setStr("redis_password", &out.RedisPassword)
	setStr("github_client_id", &out.GitHubClientID)
	setStr("github_client_secret", &out.GitHubClientSecret)
	setStr("google_client_id", &out.GoogleClientID)
	setStr("google_client_secret", &out.GoogleClientSecret)
	setStr("oauth_redirect_base", &out.OAuthRedirectBase)
	setStr("moderation_service_url", &out.ModerationServiceURL)
	setInt("rate_limit_per_minute", &out.RateLimitPerMinute)
	setStr("gin_mode", &out.GinMode)
	setStr("gin_path", &out.GinPath)
	setStr("log_level", &out.LogLevel)
	setStr("log_path", &out.LogPath)
	setInt("log_max_size_mb", &out.LogMaxSizeMB)
	setInt("log_max_backups", &out.LogMaxBackups)
	setInt("log_max_age_days", &out.LogMaxAgeDays)
	setBool("log_compress", &out.LogCompress)
	setInt("register_max_per_ip_per_day", &out.RegisterMaxPerIPPerDay)
	setInt("register_attempt_cooldown_sec", &out.RegisterAttemptCooldownSec)

	if v, ok := raw["allowed_origins"].(string); ok && v != "" {
		out.AllowedOrigins = splitAndTrim(v)
	}

	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "stackit"
	}
	if c.DBName == "" {
		c.DBName = "stackit"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.ModerationServiceURL == "" {
		c.ModerationServiceURL = "http://127.0.0.1:8000"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/stackit.log"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.RegisterMaxPerIPPerDay == 0 {
		c.RegisterMaxPerIPPerDay = 20
	}
	if c.RegisterAttemptCooldownSec == 0 {
		c.RegisterAttemptCooldownSec = 10
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.GitHubClientID = getEnv("GITHUB_CLIENT_ID", c.GitHubClientID)
	c.GitHubClientSecret = getEnv("GITHUB_CLIENT_SECRET", c.GitHubClientSecret)
	c.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.OAuthRedirectBase = getEnv("OAUTH_REDIRECT_BASE", c.OAuthRedirectBase)
	c.ModerationServiceURL = getEnv("MODERATION_SERVICE_URL", c.ModerationServiceURL)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_PATH", c.GinPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
	c.RegisterMaxPerIPPerDay = getEnvInt("REGISTER_MAX_PER_IP_PER_DAY", c.RegisterMaxPerIPPerDay)
	c.RegisterAttemptCooldownSec = getEnvInt("REGISTER_ATTEMPT_COOLDOWN_SEC", c.RegisterAttemptCooldownSec)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "1" || strings.EqualFold(v, "true")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
