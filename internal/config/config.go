package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL settings for the optional database-backed
// document store. Leaving Host empty keeps the default in-memory store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the optional S3-compatible
// upload backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// UploadConfig groups the file intake knobs.
type UploadConfig struct {
	// Dir is where the disk storage backend keeps uploaded files.
	Dir string
	// StagingDir receives uploads while extraction runs. Files move to the
	// storage backend only after extraction succeeds.
	StagingDir string
	// MaxBytes is the upload size ceiling, enforced before extraction.
	MaxBytes int64
	// KeepFailed preserves staged files whose extraction failed, for
	// debugging. Default is to remove them.
	KeepFailed bool
	// ExtractTimeout bounds a single extraction call.
	ExtractTimeout time.Duration
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	Mode  string // "dev" or "prod"
	Dir   string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; a .env file can be auto-loaded
// by importing _ "github.com/joho/godotenv/autoload". Real environment
// variables take precedence over the .env file.
type AppConfig struct {
	Port           string
	StorageBackend string // "disk" or "s3"
	RepoBackend    string // "memory" or "postgres"
	OpenAPIPath    string // pre-authored YAML schema, served verbatim
	Upload         UploadConfig
	Log            LogConfig
	Database       DatabaseConfig
	MinIO          MinIOConfig
}

// Load reads configuration from environment variables, applying defaults for
// everything non-sensitive.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "3000"),
		StorageBackend: getEnv("STORAGE_BACKEND", "disk"),
		RepoBackend:    getEnv("REPO_BACKEND", "memory"),
		OpenAPIPath:    getEnv("OPENAPI_YAML_PATH", "openapi.yaml"),
		Upload: UploadConfig{
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			StagingDir:     getEnv("UPLOAD_STAGING_DIR", os.TempDir()),
			MaxBytes:       getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
			KeepFailed:     getEnvBool("UPLOAD_KEEP_FAILED", false),
			ExtractTimeout: time.Duration(getEnvInt("EXTRACT_TIMEOUT_SEC", 30)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Mode:  getEnv("LOG_MODE", "prod"),
			Dir:   getEnv("LOG_DIR", "logs"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
