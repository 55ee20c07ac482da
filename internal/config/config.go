package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration, loaded once at startup from
// PIXELO_* environment variables.
type Config struct {
	Port     string `env:"PIXELO_PORT" envDefault:"8080"`
	DBPath   string `env:"PIXELO_DB_PATH" envDefault:"pixelo.db"`
	LogLevel string `env:"PIXELO_LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"PIXELO_BASE_URL" envDefault:"http://localhost:8080"`

	// ShareSecret signs share-link tokens. Required in production; the
	// share endpoints are disabled when empty.
	ShareSecret string        `env:"PIXELO_SHARE_SECRET"`
	ShareTTL    time.Duration `env:"PIXELO_SHARE_TTL" envDefault:"168h"`

	Push   PushConfig   `envPrefix:"PIXELO_PUSH_"`
	Backup BackupConfig `envPrefix:"PIXELO_BACKUP_"`
}

// PushConfig holds the web push VAPID keys. Push is disabled when the
// keys are empty.
type PushConfig struct {
	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	Subscriber      string `env:"SUBSCRIBER" envDefault:"mailto:admin@example.com"`
	ReminderHour    int    `env:"REMINDER_HOUR" envDefault:"20"`
}

// BackupConfig configures the S3 snapshot schedule. Backups are disabled
// when the bucket is empty.
type BackupConfig struct {
	Bucket    string        `env:"S3_BUCKET"`
	Region    string        `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint  string        `env:"S3_ENDPOINT"`
	AccessKey string        `env:"S3_ACCESS_KEY"`
	SecretKey string        `env:"S3_SECRET_KEY"`
	Interval  time.Duration `env:"INTERVAL" envDefault:"24h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c PushConfig) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func (c BackupConfig) Enabled() bool {
	return c.Bucket != ""
}
