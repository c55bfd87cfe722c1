package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	AppEnv                        string        `mapstructure:"APP_ENV"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	TokenTTL                      time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost                    int           `mapstructure:"BCRYPT_COST"`
	AdminEmails                   []string      `mapstructure:"ADMIN_EMAILS"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigins                   []string      `mapstructure:"CORS_ORIGINS"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                 string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                       int           `mapstructure:"REDIS_DB"`
	RateLimitPerMinute            int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	IdempotencyTTL                time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	AMQPURL                       string        `mapstructure:"AMQP_URL"`
	EventsQueue                   string        `mapstructure:"EVENTS_QUEUE"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

var envKeys = []string{
	"PORT",
	"APP_ENV",
	"LOG_LEVEL",
	"DATABASE_DRIVER",
	"DATABASE_DSN",
	"JWT_SECRET",
	"TOKEN_TTL",
	"BCRYPT_COST",
	"ADMIN_EMAILS",
	"ENABLE_CORS",
	"CORS_ORIGINS",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"RATE_LIMIT_PER_MINUTE",
	"IDEMPOTENCY_TTL",
	"AMQP_URL",
	"EVENTS_QUEUE",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
}

// LoadConfig reads an optional .env file, then the process environment, on top of
// the defaults below.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "bharat-yatra.db")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("ADMIN_EMAILS", []string{})
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("CORS_ORIGINS", []string{"http://127.0.0.1:5500"})
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("EVENTS_QUEUE", "bharat-yatra.events")

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// IsAdminEmail reports whether a newly registered account gets the admin role.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}
