package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	App      AppConfig      `mapstructure:"app"      validate:"required"`
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Token    TokenConfig    `mapstructure:"token"    validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

// AppConfig contains application identity settings used in notification email.
type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// TokenConfig contains the expiry windows for issued tokens.
type TokenConfig struct {
	MailLifetimeMinutes int `mapstructure:"mail_lifetime_minutes" validate:"required,gt=0"`
	AuthLifetimeMinutes int `mapstructure:"auth_lifetime_minutes" validate:"required,gt=0"`
}

// MailLifetime returns the lifetime of mail-type tokens as a duration.
func (c TokenConfig) MailLifetime() time.Duration {
	return time.Duration(c.MailLifetimeMinutes) * time.Minute
}

// AuthLifetime returns the lifetime of auth-type tokens as a duration.
func (c TokenConfig) AuthLifetime() time.Duration {
	return time.Duration(c.AuthLifetimeMinutes) * time.Minute
}

// SMTPConfig contains the settings for the SMTP notification sender.
// When Host is empty, the server falls back to a log-only notifier.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"omitempty,email"`
	Secure   bool   `mapstructure:"secure"`
}

// Enabled reports whether SMTP delivery is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}
