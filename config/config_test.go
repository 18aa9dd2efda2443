package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"WORKFLOW_BASE_URL", "MATCH_LEADS_PATH", "SEND_MESSAGE_PATH", "AGENT_ID", "STORAGE_BACKEND", "UPSTREAM_TIMEOUT", "TRACKING_TIMEOUT", "MAX_UPLOAD_MB", "DB_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()
	assert.Equal(t, "https://n8n.opsmith.biz/webhook/match-leads", cfg.MatchLeadsURL())
	assert.Equal(t, "https://n8n.opsmith.biz/webhook/send-message", cfg.SendMessageURL())
	assert.Equal(t, "sarah-lim-001", cfg.AgentID)
	assert.Equal(t, StorageBackendEdge, cfg.StorageBackend)
	assert.Equal(t, 2*time.Minute, cfg.UpstreamTimeout)
	assert.Equal(t, 15*time.Second, cfg.TrackingTimeout)
	assert.Equal(t, 4*time.Second, cfg.NotificationTTL)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("WORKFLOW_BASE_URL", "http://localhost:5678/webhook/")
	t.Setenv("MATCH_LEADS_PATH", "/match")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")
	t.Setenv("UPSTREAM_TIMEOUT", "45s")
	t.Setenv("MAX_UPLOAD_MB", "10")

	cfg := NewConfig()
	assert.Equal(t, "http://localhost:5678/webhook/match", cfg.MatchLeadsURL())
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad workflow url", func(c *Config) { c.WorkflowBaseURL = "n8n.local" }, true},
		{"missing agent", func(c *Config) { c.AgentID = " " }, true},
		{"unknown backend", func(c *Config) { c.StorageBackend = "gcs" }, true},
		{"s3 without credentials", func(c *Config) { c.StorageBackend = StorageBackendS3 }, true},
		{"unsupported driver", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"s3 configured", func(c *Config) {
			c.StorageBackend = StorageBackendS3
			c.S3Config.BucketName = "listings"
			c.S3Config.AccessKey = "key"
			c.S3Config.SecretKey = "secret"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				WorkflowBaseURL: "https://n8n.example.com/webhook",
				AgentID:         "sarah-lim-001",
				StorageBaseURL:  "https://tracker.example.workers.dev",
				StorageBackend:  StorageBackendEdge,
				MaxUploadBytes:  50 << 20,
				Database:        &DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"},
				S3Config:        &S3Config{},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDefaultsBucketURL(t *testing.T) {
	cfg := &Config{
		WorkflowBaseURL: "https://n8n.example.com/webhook",
		AgentID:         "sarah-lim-001",
		StorageBackend:  StorageBackendS3,
		MaxUploadBytes:  1 << 20,
		Database:        &DatabaseConfig{Driver: "mysql", DSN: "user:pass@tcp(localhost:3306)/agent"},
		S3Config:        &S3Config{BucketName: "listings", AccessKey: "k", SecretKey: "s"},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://listings.s3.amazonaws.com", cfg.S3Config.BucketUrl)
}
