package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"

	StoreDisk = "disk"
	StoreR2   = "r2"
	StoreGCS  = "gcs"

	minSecretLength = 32
)

var ErrWeakSecret = errors.New("JWT_SECRET must be at least 32 bytes")

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins []string

	DatabaseDriver string
	SQLitePath     string
	MongoURI       string
	DatabaseName   string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	AdminUserName string
	AdminPassword string

	CookieSecure bool
	CookieDomain string

	ContentStore string
	ContentDir   string
	R2           R2Config
	GCS          GCSConfig

	MaxUploadSizeMB       int
	AllowedFileExtensions []string
	AllowedFileMimeTypes  []string

	LogLevel  string
	LogFormat string
}

type R2Config struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicDomain    string
}

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", "data/blog.db"),
		MongoURI:       os.Getenv("MONGODB_URI"),
		DatabaseName:   getEnvOrDefault("DATABASE_NAME", "blog"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        time.Duration(positiveInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:       time.Duration(positiveInt("REFRESH_TOKEN_TTL_DAYS", 14)) * 24 * time.Hour,

		AdminUserName: strings.TrimSpace(os.Getenv("ADMIN_USER_NAME")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		ContentStore: strings.ToLower(getEnvOrDefault("CONTENT_STORE", StoreDisk)),
		ContentDir:   getEnvOrDefault("CONTENT_DIR", "data/content"),
		R2: R2Config{
			Bucket:          os.Getenv("R2_BUCKET"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			PublicDomain:    strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
		},
		GCS: GCSConfig{
			Bucket:          os.Getenv("GCS_BUCKET"),
			CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
		},

		MaxUploadSizeMB:       positiveInt("MAX_UPLOAD_SIZE_MB", 5),
		AllowedFileExtensions: lowerList(getEnvOrDefault("ALLOWED_FILE_EXTENSIONS", ".txt,.md,.html,.pdf")),
		AllowedFileMimeTypes:  lowerList(getEnvOrDefault("ALLOWED_FILE_MIME_TYPES", "text/plain; charset=utf-8,text/html; charset=utf-8,application/pdf")),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

// Validate reports configuration the process cannot run with.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return ErrWeakSecret
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo driver")
		}
	default:
		return errors.New("unknown DATABASE_DRIVER " + strconv.Quote(c.DatabaseDriver))
	}
	return nil
}

// RefreshSecret falls back to the access secret when no dedicated one is set.
func (c *Config) RefreshSecret() string {
	if c.JWTRefreshSecret != "" {
		return c.JWTRefreshSecret
	}
	return c.JWTSecret
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func positiveInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func lowerList(raw string) []string {
	items := splitList(raw)
	for i := range items {
		items[i] = strings.ToLower(items[i])
	}
	return items
}
