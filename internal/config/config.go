package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Drive    DriveConfig
	S3       S3Config
	Download DownloadConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type TelegramConfig struct {
	BotToken      string
	UpdateTimeout int
	MaxAttachment int64
}

type StorageConfig struct {
	// Backend selects the cloud uploader: "drive" or "s3".
	Backend string
}

type DriveConfig struct {
	FolderID        string
	CredentialsPath string
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Prefix          string
	EndpointURL     string
}

type DownloadConfig struct {
	Dir     string
	Timeout time.Duration
}

// Telegram bots cannot send files above 50MB through the Bot API.
const defaultMaxAttachment = 50 * 1024 * 1024

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration (health endpoints)
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Telegram configuration
	token, err := getEnvRequired("TELEGRAM_BOT_TOKEN")
	if err != nil {
		return nil, err
	}
	cfg.Telegram.BotToken = token
	cfg.Telegram.UpdateTimeout = getEnvInt("TELEGRAM_UPDATE_TIMEOUT", 60)
	cfg.Telegram.MaxAttachment = getEnvInt64("MAX_ATTACHMENT_SIZE", defaultMaxAttachment)

	// Storage configuration
	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", "drive")
	switch cfg.Storage.Backend {
	case "drive":
		folderID, err := getEnvRequired("GOOGLE_DRIVE_FOLDER_ID")
		if err != nil {
			return nil, err
		}
		cfg.Drive.FolderID = folderID
		cfg.Drive.CredentialsPath = getEnv("GOOGLE_CREDENTIALS_PATH", "credentials.json")
		if _, err := os.Stat(cfg.Drive.CredentialsPath); err != nil {
			return nil, fmt.Errorf("credentials file %s not accessible: %w", cfg.Drive.CredentialsPath, err)
		}
	case "s3":
		bucket, err := getEnvRequired("S3_BUCKET_NAME")
		if err != nil {
			return nil, err
		}
		cfg.S3.BucketName = bucket
		cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
		cfg.S3.Prefix = getEnv("S3_PREFIX", "audio")
		cfg.S3.EndpointURL = getEnv("AWS_ENDPOINT_URL", "") // Optional for LocalStack
		accessKey, err := getEnvRequired("AWS_ACCESS_KEY_ID")
		if err != nil {
			return nil, err
		}
		cfg.S3.AccessKeyID = accessKey
		secretKey, err := getEnvRequired("AWS_SECRET_ACCESS_KEY")
		if err != nil {
			return nil, err
		}
		cfg.S3.SecretAccessKey = secretKey
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (expected drive or s3)", cfg.Storage.Backend)
	}

	// Download configuration
	cfg.Download.Dir = getEnv("DOWNLOAD_DIR", os.TempDir())
	downloadTimeout, err := time.ParseDuration(getEnv("DOWNLOAD_TIMEOUT", "300s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_TIMEOUT: %w", err)
	}
	cfg.Download.Timeout = downloadTimeout

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
