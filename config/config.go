package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"propertyagent/internal/utils"

	"github.com/joho/godotenv"
)

const (
	StorageBackendEdge = "edge"
	StorageBackendS3   = "s3"
)

type Config struct {
	WorkflowBaseURL string
	MatchLeadsPath  string
	SendMessagePath string
	AgentID         string
	StorageBaseURL  string
	StorageBackend  string

	ServerAddr     string
	AllowedOrigins []string

	UpstreamTimeout time.Duration
	TrackingTimeout time.Duration
	NotificationTTL time.Duration
	SessionIdleTTL  time.Duration
	MaxUploadBytes  int64

	LogLevel  string
	LogFormat string

	Database *DatabaseConfig
	S3Config *S3Config
}

type S3Config struct {
	AccessKey  string
	SecretKey  string
	Region     string
	BucketName string
	ServiceUrl string
	BucketUrl  string

	ForcePathStyle bool
}

// NewConfig reads the environment, loading a .env file first when present.
func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		WorkflowBaseURL: strings.TrimRight(getEnv("WORKFLOW_BASE_URL", "https://n8n.opsmith.biz/webhook"), "/"),
		MatchLeadsPath:  getEnv("MATCH_LEADS_PATH", "/match-leads"),
		SendMessagePath: getEnv("SEND_MESSAGE_PATH", "/send-message"),
		AgentID:         getEnv("AGENT_ID", "sarah-lim-001"),
		StorageBaseURL:  strings.TrimRight(getEnv("STORAGE_BASE_URL", "https://propertyagent-pro-tracker.mingquan.workers.dev"), "/"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendEdge)),

		ServerAddr:     getEnv("SERVER_ADDR", ":8081"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 2*time.Minute),
		TrackingTimeout: getEnvDuration("TRACKING_TIMEOUT", 15*time.Second),
		NotificationTTL: getEnvDuration("NOTIFICATION_TTL", 4*time.Second),
		SessionIdleTTL:  getEnvDuration("SESSION_IDLE_TTL", 12*time.Hour),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_MB", 50)) << 20,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Database: &DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:    getEnv("DB_DSN", "file:propertyagent.db?_pragma=foreign_keys(1)"),
		},
		S3Config: &S3Config{
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
			Region:     getEnv("S3_REGION", "us-east-1"),
			BucketName: getEnv("S3_BUCKET", ""),
			ServiceUrl: getEnv("S3_SERVICE_URL", "https://s3.amazonaws.com"),
			BucketUrl:  strings.TrimRight(getEnv("S3_BUCKET_URL", ""), "/"),

			ForcePathStyle: getEnvBool("S3_FORCE_PATH_STYLE", false),
		},
	}
}

func (c *Config) MatchLeadsURL() string {
	return c.WorkflowBaseURL + c.MatchLeadsPath
}

func (c *Config) SendMessageURL() string {
	return c.WorkflowBaseURL + c.SendMessagePath
}

func (c *Config) Validate() error {
	if !utils.IsURL(c.WorkflowBaseURL) {
		return fmt.Errorf("WORKFLOW_BASE_URL must be an http(s) URL, got %q", c.WorkflowBaseURL)
	}
	if strings.TrimSpace(c.AgentID) == "" {
		return fmt.Errorf("AGENT_ID is required")
	}
	switch c.StorageBackend {
	case StorageBackendEdge:
		if !utils.IsURL(c.StorageBaseURL) {
			return fmt.Errorf("STORAGE_BASE_URL must be an http(s) URL, got %q", c.StorageBaseURL)
		}
	case StorageBackendS3:
		if c.S3Config.BucketName == "" || c.S3Config.AccessKey == "" || c.S3Config.SecretKey == "" {
			return fmt.Errorf("s3 storage requires S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
		if c.S3Config.BucketUrl == "" {
			c.S3Config.BucketUrl = fmt.Sprintf("https://%s.s3.amazonaws.com", c.S3Config.BucketName)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return c.Database.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
