package config

import (
	"os"
	"time"
)

type Config struct {
	DatabasePath    string
	Port            string
	SecretKey       string
	Environment     string
	SessionDuration time.Duration

	DefaultUsername string
	DefaultPassword string

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

func Load() *Config {
	cfg := &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "sainiksetu.db"),
		Port:            getEnv("PORT", "8080"),
		SecretKey:       getEnv("SECRET_KEY", "dev-secret-change-me"),
		Environment:     getEnv("ENVIRONMENT", "production"),
		SessionDuration: getDurationEnv("SESSION_DURATION", 168*time.Hour),

		DefaultUsername: getEnv("DEFAULT_USERNAME", "army"),
		DefaultPassword: getEnv("DEFAULT_PASSWORD", "armt"),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "noreply@sainiksetu.example"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "Sainik Setu"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
