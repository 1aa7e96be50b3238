package config

import (
	"testing"
	"time"
)

// archiveEnvVars lists all archive-related env vars that must be cleared between tests.
var archiveEnvVars = []string{
	"PULSE_ARCHIVE_INTERVAL", "PULSE_ARCHIVE_S3_BUCKET", "PULSE_ARCHIVE_S3_ENDPOINT",
	"PULSE_ARCHIVE_S3_REGION", "PULSE_ARCHIVE_S3_KEY", "PULSE_ARCHIVE_GIT_REPO",
	"PULSE_ARCHIVE_GIT_FILE", "PULSE_ARCHIVE_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PULSE_DATABASE_URL", "PULSE_HTTP_ADDR", "PULSE_NATS_URL", "PULSE_AUTH_TOKEN"} {
		t.Setenv(key, "")
	}
	for _, key := range archiveEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"PULSE_DATABASE_URL": "postgres://localhost/pulse"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"PULSE_DATABASE_URL": "postgres://db:5432/pulse",
				"PULSE_HTTP_ADDR":    ":3000",
				"PULSE_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["PULSE_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["PULSE_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadArchiveDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("PULSE_DATABASE_URL", "postgres://localhost/pulse")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchiveInterval != 5*time.Minute {
		t.Errorf("ArchiveInterval = %v, want 5m", cfg.ArchiveInterval)
	}
	if cfg.ArchiveS3Region != "us-east-1" {
		t.Errorf("ArchiveS3Region = %q, want %q", cfg.ArchiveS3Region, "us-east-1")
	}
	if cfg.ArchiveS3Key != "pulse/activity.jsonl" {
		t.Errorf("ArchiveS3Key = %q, want %q", cfg.ArchiveS3Key, "pulse/activity.jsonl")
	}
	if cfg.ArchiveGitFile != "activity.jsonl" {
		t.Errorf("ArchiveGitFile = %q, want %q", cfg.ArchiveGitFile, "activity.jsonl")
	}
	if cfg.ArchiveGitBranch != "main" {
		t.Errorf("ArchiveGitBranch = %q, want %q", cfg.ArchiveGitBranch, "main")
	}
}

func TestLoadArchiveCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("PULSE_DATABASE_URL", "postgres://localhost/pulse")
	t.Setenv("PULSE_ARCHIVE_INTERVAL", "10m")
	t.Setenv("PULSE_ARCHIVE_S3_BUCKET", "my-bucket")
	t.Setenv("PULSE_ARCHIVE_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("PULSE_ARCHIVE_S3_REGION", "eu-west-1")
	t.Setenv("PULSE_ARCHIVE_S3_KEY", "custom/key.jsonl")
	t.Setenv("PULSE_ARCHIVE_GIT_REPO", "/tmp/repo")
	t.Setenv("PULSE_ARCHIVE_GIT_FILE", "custom.jsonl")
	t.Setenv("PULSE_ARCHIVE_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchiveInterval != 10*time.Minute {
		t.Errorf("ArchiveInterval = %v, want 10m", cfg.ArchiveInterval)
	}
	if cfg.ArchiveS3Bucket != "my-bucket" {
		t.Errorf("ArchiveS3Bucket = %q", cfg.ArchiveS3Bucket)
	}
	if cfg.ArchiveS3Endpoint != "http://minio:9000" {
		t.Errorf("ArchiveS3Endpoint = %q", cfg.ArchiveS3Endpoint)
	}
	if cfg.ArchiveS3Region != "eu-west-1" {
		t.Errorf("ArchiveS3Region = %q", cfg.ArchiveS3Region)
	}
	if cfg.ArchiveS3Key != "custom/key.jsonl" {
		t.Errorf("ArchiveS3Key = %q", cfg.ArchiveS3Key)
	}
	if cfg.ArchiveGitRepo != "/tmp/repo" {
		t.Errorf("ArchiveGitRepo = %q", cfg.ArchiveGitRepo)
	}
	if cfg.ArchiveGitFile != "custom.jsonl" {
		t.Errorf("ArchiveGitFile = %q", cfg.ArchiveGitFile)
	}
	if cfg.ArchiveGitBranch != "backup" {
		t.Errorf("ArchiveGitBranch = %q", cfg.ArchiveGitBranch)
	}
}

func TestLoadArchiveInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("PULSE_DATABASE_URL", "postgres://localhost/pulse")
	t.Setenv("PULSE_ARCHIVE_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid PULSE_ARCHIVE_INTERVAL")
	}
}

func TestLoadArchiveDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("PULSE_DATABASE_URL", "postgres://localhost/pulse")
	t.Setenv("PULSE_ARCHIVE_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchiveInterval != 0 {
		t.Errorf("ArchiveInterval = %v, want 0 (disabled)", cfg.ArchiveInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
