package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Auth     AuthConfig
	Mail     MailConfig
	Visit    VisitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret      string
	SessionDays int
	Issuer      string
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	// EmailDomain is appended to login identifiers that lack a domain,
	// e.g. a student short id like CS21B1001.
	EmailDomain string
}

// MailConfig holds notification mailer configuration
type MailConfig struct {
	Provider        string // "smtp", "mailersend" or "dev"
	From            string
	FromName        string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	MailerSendKey   string
	AdminDigestCron string
}

// VisitConfig holds the gate verification time window
type VisitConfig struct {
	WindowStartHour int // inclusive, local time
	WindowEndHour   int // inclusive
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Auth: AuthConfig{
			EmailDomain: getEnv("AUTH_EMAIL_DOMAIN", "iith.ac.in"),
		},
		Mail:  loadMailConfig(),
		Visit: loadVisitConfig(),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	maxIdle, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "10"))
	maxOpen, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "100"))
	lifetimeMin, _ := strconv.Atoi(getEnv("DB_CONN_MAX_LIFETIME_MIN", "60"))

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "campus_visitpass"),

		MaxIdleConns:    maxIdle,
		MaxOpenConns:    maxOpen,
		ConnMaxLifetime: time.Duration(lifetimeMin) * time.Minute,
	}
}

// loadJWTConfig loads session token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	sessionDays, _ := strconv.Atoi(getEnv("SESSION_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:      getEnv(prefix+"JWT_SECRET", "default_secret"),
		SessionDays: sessionDays,
		Issuer:      "campus-visitpass",
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "strict"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadMailConfig loads notification mailer config
func loadMailConfig() MailConfig {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	return MailConfig{
		Provider:        getEnv("MAIL_PROVIDER", "dev"),
		From:            getEnv("MAIL_FROM", "visitors@campus.local"),
		FromName:        getEnv("MAIL_FROM_NAME", "Campus Visitor Management"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        smtpPort,
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPass:        getEnv("SMTP_PASS", ""),
		MailerSendKey:   getEnv("MAILERSEND_API_KEY", ""),
		AdminDigestCron: getEnv("ADMIN_DIGEST_CRON", "30 8 * * *"),
	}
}

// loadVisitConfig loads the same-day verification window
func loadVisitConfig() VisitConfig {
	start, _ := strconv.Atoi(getEnv("VISIT_WINDOW_START_HOUR", "9"))
	end, _ := strconv.Atoi(getEnv("VISIT_WINDOW_END_HOUR", "18"))

	return VisitConfig{
		WindowStartHour: start,
		WindowEndHour:   end,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://visitors.campus.local"
	}
	return origins
}
