// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SMSConfig provides settings for the SMS gateway client.
type SMSConfig interface {
	GetSMSGatewayURL() string
	GetSMSAPIKey() string
	GetSMSAlertRecipient() string
	GetDefaultPhoneRegion() string
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// FollowUpConfig provides settings for the follow-up sweep.
type FollowUpConfig interface {
	GetSweepInterval() time.Duration
	GetSendTimeout() time.Duration
	GetSweepParallelism() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	JWTAccessSecret    string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	EmailEnabled       bool
	EmailProvider      string
	BrevoAPIKey        string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	EmailFromName      string
	EmailFromAddress   string
	SMSGatewayURL      string
	SMSAPIKey          string
	SMSAlertRecipient  string
	DefaultPhoneRegion string
	RedisURL           string
	RedisTLSInsecure   bool
	AsynqQueueName     string
	AsynqConcurrency   int
	SweepInterval      time.Duration
	SendTimeout        time.Duration
	SweepParallelism   int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SMSConfig implementation
func (c *Config) GetSMSGatewayURL() string      { return c.SMSGatewayURL }
func (c *Config) GetSMSAPIKey() string          { return c.SMSAPIKey }
func (c *Config) GetSMSAlertRecipient() string  { return c.SMSAlertRecipient }
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string      { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// FollowUpConfig implementation
func (c *Config) GetSweepInterval() time.Duration { return c.SweepInterval }
func (c *Config) GetSendTimeout() time.Duration   { return c.SendTimeout }
func (c *Config) GetSweepParallelism() int        { return c.SweepParallelism }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp"))
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	asynqConcurrency, err := intEnv("ASYNQ_CONCURRENCY", 10)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := durationEnv("FOLLOWUP_SWEEP_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	sendTimeout, err := durationEnv("FOLLOWUP_SEND_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sweepParallelism, err := intEnv("FOLLOWUP_SWEEP_PARALLELISM", 4)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTAccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		EmailEnabled:       emailEnabled,
		EmailProvider:      emailProvider,
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           smtpPort,
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Roofline"),
		EmailFromAddress:   getEnv("EMAIL_FROM_ADDRESS", ""),
		SMSGatewayURL:      getEnv("SMS_GATEWAY_URL", ""),
		SMSAPIKey:          getEnv("SMS_API_KEY", ""),
		SMSAlertRecipient:  getEnv("SMS_ALERT_RECIPIENT", ""),
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "US"),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisTLSInsecure:   strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:   asynqConcurrency,
		SweepInterval:      sweepInterval,
		SendTimeout:        sendTimeout,
		SweepParallelism:   sweepParallelism,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled {
		switch cfg.EmailProvider {
		case "brevo":
			if cfg.BrevoAPIKey == "" {
				return nil, fmt.Errorf("BREVO_API_KEY is required when EMAIL_PROVIDER is brevo")
			}
		case "smtp":
			if cfg.SMTPHost == "" {
				return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
			}
		default:
			return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
		}
		if cfg.EmailFromAddress == "" {
			return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
		}
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("FOLLOWUP_SWEEP_INTERVAL must be a positive duration")
	}
	if cfg.SendTimeout <= 0 {
		return nil, fmt.Errorf("FOLLOWUP_SEND_TIMEOUT must be a positive duration")
	}
	if cfg.SweepParallelism < 1 {
		return nil, fmt.Errorf("FOLLOWUP_SWEEP_PARALLELISM must be at least 1")
	}
	if cfg.AsynqConcurrency < 1 {
		return nil, fmt.Errorf("ASYNQ_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, val)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	result, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return result, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
