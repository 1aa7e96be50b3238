package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // PULSE_DATABASE_URL (required)
	HTTPAddr    string // PULSE_HTTP_ADDR (default ":8080")
	NATSURL     string // PULSE_NATS_URL (optional, empty = no broker mirror)
	AuthToken   string // PULSE_AUTH_TOKEN (optional, empty = auth disabled)

	// Archive settings
	ArchiveInterval   time.Duration // PULSE_ARCHIVE_INTERVAL (default 5m; 0 = disabled)
	ArchiveS3Bucket   string        // PULSE_ARCHIVE_S3_BUCKET (enables S3 when set)
	ArchiveS3Endpoint string        // PULSE_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	ArchiveS3Region   string        // PULSE_ARCHIVE_S3_REGION (default "us-east-1")
	ArchiveS3Key      string        // PULSE_ARCHIVE_S3_KEY (default "pulse/activity.jsonl")
	ArchiveGitRepo    string        // PULSE_ARCHIVE_GIT_REPO (enables git when set; path to clone)
	ArchiveGitFile    string        // PULSE_ARCHIVE_GIT_FILE (default "activity.jsonl")
	ArchiveGitBranch  string        // PULSE_ARCHIVE_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:       os.Getenv("PULSE_DATABASE_URL"),
		HTTPAddr:          envOrDefault("PULSE_HTTP_ADDR", ":8080"),
		NATSURL:           os.Getenv("PULSE_NATS_URL"),
		AuthToken:         os.Getenv("PULSE_AUTH_TOKEN"),
		ArchiveS3Bucket:   os.Getenv("PULSE_ARCHIVE_S3_BUCKET"),
		ArchiveS3Endpoint: os.Getenv("PULSE_ARCHIVE_S3_ENDPOINT"),
		ArchiveS3Region:   envOrDefault("PULSE_ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveS3Key:      envOrDefault("PULSE_ARCHIVE_S3_KEY", "pulse/activity.jsonl"),
		ArchiveGitRepo:    os.Getenv("PULSE_ARCHIVE_GIT_REPO"),
		ArchiveGitFile:    envOrDefault("PULSE_ARCHIVE_GIT_FILE", "activity.jsonl"),
		ArchiveGitBranch:  envOrDefault("PULSE_ARCHIVE_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("PULSE_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("PULSE_ARCHIVE_INTERVAL", "5m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("PULSE_ARCHIVE_INTERVAL: %w", err)
		}
		c.ArchiveInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
