package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envStorageBackend        = "STORAGE_BACKEND"
	envStorageDiskRoot       = "STORAGE_DISK_ROOT"
	envStorageS3Bucket       = "STORAGE_S3_BUCKET"
	envAWSRegion             = "AWS_REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envLinkSigningSecret     = "LINK_SIGNING_SECRET"
	envPublicBaseURL         = "PUBLIC_BASE_URL"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envPaginationPageSize    = "PAGINATION_PAGE_SIZE"
)

const (
	StorageBackendDisk = "disk"
	StorageBackendS3   = "s3"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "imageservice"
	defaultDBUser             = "imageservice_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultStorageBackend     = StorageBackendDisk
	defaultStorageDiskRoot    = "./media"
	defaultJWTExpiry          = 60 * time.Minute
	defaultPublicBaseURL      = "http://localhost:8080"
	defaultMaxUploadSize      = int64(20 * 1024 * 1024)
	defaultPageSize           = 100
	minSecretLength           = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequiredFmt          = "PORT must be set"
	errDBPasswordRequiredFmt    = "DB_PASSWORD must be set"
	errUnknownStorageBackendFmt = "STORAGE_BACKEND must be %q or %q"
	errS3BucketRequiredFmt      = "STORAGE_S3_BUCKET must be set when STORAGE_BACKEND is s3"
	errAWSRegionRequiredFmt     = "AWS_REGION must be set when STORAGE_BACKEND is s3"
	errAWSAccessKeyRequiredFmt  = "AWS_ACCESS_KEY_ID must be set when STORAGE_BACKEND is s3"
	errAWSSecretKeyRequiredFmt  = "AWS_SECRET_ACCESS_KEY must be set when STORAGE_BACKEND is s3"
	errSecretRequiredFmt        = "%s must be set"
	errSecretMinLengthFmt       = "%s must be at least %d characters"
	errSecretLowEntropyFmt      = "%s has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errInvalidConfigurationFmt  = "invalid configuration: %w"
	errRequiredEnvNotSetFmt     = "required environment variable %s is not set"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	AWS      AWSConfig
	JWT      JWTConfig
	Links    LinksConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type StorageConfig struct {
	Backend  string
	DiskRoot string
	S3Bucket string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

// LinksConfig carries the process-wide expiring-link signing secret and the
// public base URL links are rendered against. The secret is threaded into
// the signer at construction, never read ambiently.
type LinksConfig struct {
	SigningSecret string
	PublicBaseURL string
}

type AppConfig struct {
	MaxUploadSize int64
	PageSize      int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Storage: StorageConfig{
			Backend:  getEnv(envStorageBackend, defaultStorageBackend),
			DiskRoot: getEnv(envStorageDiskRoot, defaultStorageDiskRoot),
			S3Bucket: os.Getenv(envStorageS3Bucket),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
		},
		JWT: JWTConfig{
			Secret:         requireEnv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Links: LinksConfig{
			SigningSecret: requireEnv(envLinkSigningSecret),
			PublicBaseURL: getEnv(envPublicBaseURL, defaultPublicBaseURL),
		},
		App: AppConfig{
			MaxUploadSize: getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			PageSize:      getIntEnv(envPaginationPageSize, defaultPageSize),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	switch c.Storage.Backend {
	case StorageBackendDisk:
	case StorageBackendS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf(errS3BucketRequiredFmt)
		}
		if c.AWS.Region == "" {
			return fmt.Errorf(errAWSRegionRequiredFmt)
		}
		if c.AWS.AccessKeyID == "" {
			return fmt.Errorf(errAWSAccessKeyRequiredFmt)
		}
		if c.AWS.SecretAccessKey == "" {
			return fmt.Errorf(errAWSSecretKeyRequiredFmt)
		}
	default:
		return fmt.Errorf(errUnknownStorageBackendFmt, StorageBackendDisk, StorageBackendS3)
	}

	if err := validateSecret(envJWTSecret, c.JWT.Secret); err != nil {
		return err
	}
	if err := validateSecret(envLinkSigningSecret, c.Links.SigningSecret); err != nil {
		return err
	}

	return nil
}

func validateSecret(name, secret string) error {
	if secret == "" {
		return fmt.Errorf(errSecretRequiredFmt, name)
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf(errSecretMinLengthFmt, name, minSecretLength)
	}
	if !hasMinimumEntropy(secret) {
		return fmt.Errorf(errSecretLowEntropyFmt, name)
	}
	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf(errRequiredEnvNotSetFmt, key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
