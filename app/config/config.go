package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "prod"

	// DefaultPageSize is shared by every post listing.
	DefaultPageSize = 10

	// DefaultSessionSecret signs sessions when SESSION_SECRET is unset.
	// It is only acceptable outside production.
	DefaultSessionSecret = "default-secret"
)

// ErrInsecureSessionSecret is returned by Validate for a production config
// that would sign sessions with a guessable key.
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a non-default value in production")

// Config holds the runtime settings of the blog service.
type Config struct {
	Env           string
	Addr          string
	DBPath        string
	MediaDir      string
	BackupDir     string
	SessionSecret string
	SessionTTL    time.Duration
	PageSize      int
	LogLevel      string
}

// Load reads the .env files for the current environment and builds a Config
// from the process environment, falling back to defaults.
func Load() *Config {
	LoadDotEnvs("")

	return &Config{
		Env:           getEnv("BLOGICUM_ENV", DevEnv),
		Addr:          getEnv("ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "data/badger"),
		MediaDir:      getEnv("MEDIA_DIR", "data/media"),
		BackupDir:     getEnv("BACKUP_DIR", "data/backups"),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		PageSize:      getPositiveInt("PAGE_SIZE", DefaultPageSize),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == ProdEnv
}

// Validate reports settings the service must not start with.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return ErrInsecureSessionSecret
	}
	return nil
}

// LoadDotEnvs loads .env files from rootPath in priority order. Variables that
// are already set are never overwritten, so earlier files win.
func LoadDotEnvs(rootPath string) {
	env := os.Getenv("BLOGICUM_ENV")
	if env == "" {
		env = DevEnv
	}

	// .env.[env].local has highest priority, usually holds secrets
	godotenv.Load(rootPath + ".env." + env + ".local")
	if env != TestEnv {
		godotenv.Load(rootPath + ".env.local")
	}
	godotenv.Load(rootPath + ".env." + env)
	godotenv.Load(rootPath + ".env")
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getPositiveInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
