package config

import (
	"log"
	"os"
	"strconv"
)

// AppConfig holds environment driven configuration values. Secrets have
// no in-code defaults and must come from the environment.
type AppConfig struct {
	AppPort string
	AppEnv  string

	JWTSecret string

	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	WeatherAPIURL      string
	WeatherAPIKey      string
	WeatherCacheTTLSec int

	RateLimitWindowMin int
	RateLimitMax       int

	UploadDir string
	FilesDir  string

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var (
	cfg    AppConfig
	loaded bool
)

// Load reads configuration from the environment. It should be called
// once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	cfg = AppConfig{
		AppPort:            getEnv("APP_PORT", "3000"),
		AppEnv:             getEnv("APP_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		DatabaseURI:        getEnv("DATABASE_URI", ""),
		DBHost:             getEnv("DB_HOST", "127.0.0.1"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "root"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "contenthub"),
		WeatherAPIURL:      getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherAPIKey:      getEnv("WEATHER_API_KEY", ""),
		WeatherCacheTTLSec: getEnvInt("WEATHER_CACHE_TTL_SECONDS", 600),
		RateLimitWindowMin: getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 100),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		FilesDir:           getEnv("FILES_DIR", "files"),
		RedisHost:          getEnv("REDIS_HOST", ""),
		RedisPort:          getEnvInt("REDIS_PORT", 6379),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPath:            getEnv("LOG_PATH", ""),
		LogMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:      getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:        getEnv("LOG_COMPRESS", "") == "true",
	}

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

// SetForTesting overrides the cached configuration. Tests only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

// IsProduction reports whether the app runs in production mode; error
// responses include stack detail only when it does not.
func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value for %s: %v", key, err)
	}
	return i
}
