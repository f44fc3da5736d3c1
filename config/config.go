package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers understood by the repository layer.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var (
	ErrMissingBotToken = errors.New("config: telegram.bot_token is required")
	ErrUnknownDriver   = errors.New("config: unknown database.driver")
	ErrMissingDSN      = errors.New("config: database.dsn is required")
	ErrPollTimeout     = errors.New("config: telegram.poll_timeout must be positive")
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	Telegram       TelegramConfig
	Database       DatabaseConfig
	Timezone       string
	Session        SessionConfig
	RateLimit      RateLimitConfig
	GoogleCalendar GoogleCalendarConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken    string
	WebhookURL  string
	SecretToken string // echoed by Telegram in X-Telegram-Bot-Api-Secret-Token
	PollTimeout time.Duration
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

// SessionConfig bounds the in-memory wizard and browse sessions.
type SessionConfig struct {
	TTL      time.Duration
	Capacity int
}

type RateLimitConfig struct {
	PerMin int
}

// GoogleCalendarConfig enables the deadline mirror when CredentialsPath is set.
type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	EventDuration   time.Duration
}

// Enabled reports whether calendar mirroring is configured.
func (c GoogleCalendarConfig) Enabled() bool {
	return c.CredentialsPath != ""
}

// Load loads configuration using Viper.
// With an empty file, config.yaml is searched in ./config, . and /etc/taskmaster/; a missing file
// is fine. Environment variables override file values, with "." replaced by "_"
// (TELEGRAM_BOT_TOKEN overrides telegram.bot_token).
func Load(file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/taskmaster/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.SecretToken = v.GetString("telegram.secret_token")
	cfg.Telegram.PollTimeout = v.GetDuration("telegram.poll_timeout")

	cfg.Database.Driver = v.GetString("database.driver")
	cfg.Database.DSN = v.GetString("database.dsn")

	cfg.Timezone = v.GetString("timezone")
	cfg.Session.TTL = v.GetDuration("session.ttl")
	cfg.Session.Capacity = v.GetInt("session.capacity")
	cfg.RateLimit.PerMin = v.GetInt("rate_limit.per_min")

	cfg.GoogleCalendar.CredentialsPath = v.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = v.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = v.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.EventDuration = v.GetDuration("google_calendar.event_duration")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return ErrMissingDSN
	}
	if c.Telegram.PollTimeout <= 0 {
		return fmt.Errorf("%w, got %s", ErrPollTimeout, c.Telegram.PollTimeout)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}
	return nil
}

// RequireBot fails unless the bot token is set. Only the commands that talk to Telegram need it.
func (c *Config) RequireBot() error {
	if c.Telegram.BotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.secret_token", "")
	v.SetDefault("telegram.poll_timeout", "30s")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "taskmaster.db")

	v.SetDefault("timezone", "Europe/Moscow")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.capacity", 10000)
	v.SetDefault("rate_limit.per_min", 60)

	v.SetDefault("google_calendar.credentials_path", "")
	v.SetDefault("google_calendar.token_path", "token.json")
	v.SetDefault("google_calendar.calendar_id", "primary")
	v.SetDefault("google_calendar.event_duration", "30m")
}
