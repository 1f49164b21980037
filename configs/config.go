package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Realtime    RealtimeConfig
	Jobs        JobsConfig
	SMTP        SMTPConfig
	Cloudinary  CloudinaryConfig
	Webhook     WebhookConfig
	ExchangeAPI ExchangeAPIConfig
	Admin       AdminConfig
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port         int
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigins string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type RealtimeConfig struct {
	InboxSize      int
	RelayInterval  time.Duration
	RelayBatchSize int
	RabbitURL      string
	Exchange       string
	ChatHistory    int
}

type JobsConfig struct {
	CleanupCron      string
	SubscriptionCron string
	ReminderCron     string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type CloudinaryConfig struct {
	URL           string
	UploadFolder  string
	InvoiceFolder string
}

type WebhookConfig struct {
	ChangeSecret string
}

type ExchangeAPIConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

type AdminConfig struct {
	UserID   string
	Email    string
	FullName string
}

// LoadOptions controls where Load looks for an env file.
type LoadOptions struct {
	EnvFile string
}

func Load() (*AppConfig, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

func LoadWithOptions(opts LoadOptions) (*AppConfig, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_NAME", "Talent Booking")
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "15s")
	v.SetDefault("IDLE_TIMEOUT", "60s")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("INBOX_SIZE", 64)
	v.SetDefault("RELAY_INTERVAL", "250ms")
	v.SetDefault("RELAY_BATCH_SIZE", 200)
	v.SetDefault("RABBIT_EXCHANGE", "changes")
	v.SetDefault("CHAT_HISTORY_LIMIT", 200)

	v.SetDefault("CLEANUP_CRON", "0 3 * * *")
	v.SetDefault("SUBSCRIPTION_CRON", "0 * * * *")
	v.SetDefault("REMINDER_CRON", "0 9 * * *")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Talent Booking")

	v.SetDefault("CLOUDINARY_UPLOAD_FOLDER", "talent_media")
	v.SetDefault("CLOUDINARY_INVOICE_FOLDER", "talent_invoices")

	v.SetDefault("EXCHANGE_RATE_BASE_URL", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("EXCHANGE_RATE_CACHE_TTL", "6h")

	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwtSecret := v.GetString("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	cfg := &AppConfig{
		Server: ServerConfig{
			Port:         v.GetInt("PORT"),
			AppName:      v.GetString("APP_NAME"),
			ReadTimeout:  v.GetDuration("READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("IDLE_TIMEOUT"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{URL: dbURL},
		Auth:     AuthConfig{JWTSecret: jwtSecret},
		Realtime: RealtimeConfig{
			InboxSize:      v.GetInt("INBOX_SIZE"),
			RelayInterval:  v.GetDuration("RELAY_INTERVAL"),
			RelayBatchSize: v.GetInt("RELAY_BATCH_SIZE"),
			RabbitURL:      v.GetString("RABBIT_URL"),
			Exchange:       v.GetString("RABBIT_EXCHANGE"),
			ChatHistory:    v.GetInt("CHAT_HISTORY_LIMIT"),
		},
		Jobs: JobsConfig{
			CleanupCron:      v.GetString("CLEANUP_CRON"),
			SubscriptionCron: v.GetString("SUBSCRIPTION_CRON"),
			ReminderCron:     v.GetString("REMINDER_CRON"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
		},
		Cloudinary: CloudinaryConfig{
			URL:           v.GetString("CLOUDINARY_URL"),
			UploadFolder:  v.GetString("CLOUDINARY_UPLOAD_FOLDER"),
			InvoiceFolder: v.GetString("CLOUDINARY_INVOICE_FOLDER"),
		},
		Webhook: WebhookConfig{ChangeSecret: v.GetString("CHANGE_WEBHOOK_SECRET")},
		ExchangeAPI: ExchangeAPIConfig{
			APIKey:   v.GetString("EXCHANGE_RATE_API_KEY"),
			BaseURL:  v.GetString("EXCHANGE_RATE_BASE_URL"),
			CacheTTL: v.GetDuration("EXCHANGE_RATE_CACHE_TTL"),
		},
		Admin: AdminConfig{
			UserID:   v.GetString("ADMIN_USER_ID"),
			Email:    v.GetString("ADMIN_EMAIL"),
			FullName: v.GetString("ADMIN_FULL_NAME"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}

	if cfg.Realtime.InboxSize <= 0 {
		cfg.Realtime.InboxSize = 64
	}
	if cfg.Realtime.RelayBatchSize <= 0 {
		cfg.Realtime.RelayBatchSize = 200
	}

	return cfg, nil
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Config returns a single raw value from the environment, after loading .env.
func Config(key string) string {
	_ = godotenv.Load(".env")
	return os.Getenv(key)
}
