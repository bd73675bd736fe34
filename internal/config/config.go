package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only suitable for development
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds application configuration
type Config struct {
	ServerPort string
	Env        string

	// Database configuration
	DatabaseType string // sqlite, postgres, mysql
	DatabasePath string // SQLite file path
	DatabaseURL  string // PostgreSQL/MySQL connection string

	// Tokens
	JWTSecret    string
	JWTExpiresIn time.Duration

	CORSOrigins        []string
	RateLimitPerMinute int

	// Uploads
	StorageDriver     string // local, s3, minio
	UploadDir         string
	PublicBaseURL     string
	UploadMaxFiles    int
	UploadMaxFileSize int64
	ImageMaxDimension int
	ImageQuality      int
	ThumbnailSize     int

	S3Bucket    string
	S3Region    string
	S3PublicURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// Email configuration (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from an optional .env file and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	port := getEnv("PORT", "3001")

	return &Config{
		ServerPort: port,
		Env:        getEnv("APP_ENV", "development"),

		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./babydiary.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		CORSOrigins:        splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),

		StorageDriver:     getEnv("STORAGE_DRIVER", "local"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", ""),
		UploadMaxFiles:    getEnvInt("UPLOAD_MAX_FILES", 5),
		UploadMaxFileSize: int64(getEnvInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)),
		ImageMaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 1920),
		ImageQuality:      getEnvInt("IMAGE_QUALITY", 85),
		ThumbnailSize:     getEnvInt("THUMBNAIL_SIZE", 400),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-1")),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "baby-diary"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Baby Diary"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),
	}
}

// IsProduction reports whether APP_ENV is "production"
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// ParseDuration accepts Go durations ("12h", "90m") and whole days ("7d")
func ParseDuration(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
