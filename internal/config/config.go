package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	JWTExpiryHours int      `mapstructure:"JWT_EXPIRY_HOURS"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("JWT_EXPIRY_HOURS")
	v.BindEnv("ALLOWED_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("LOG_LEVEL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Unmarshal splits the comma-separated value but keeps the surrounding
	// whitespace, so normalize whatever it produced.
	raw := cfg.AllowedOrigins
	if raw == nil {
		if origins := v.GetString("ALLOWED_ORIGINS"); origins != "" {
			raw = strings.Split(origins, ",")
		}
	}
	cfg.AllowedOrigins = nil
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CORSOrigins returns the origins to allow. With no configured origins every
// origin is allowed, matching how deployed mobile clients reach the API.
func (c *Config) CORSOrigins() []string {
	if len(c.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.AllowedOrigins
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive, got %d", c.JWTExpiryHours)
	}
	return nil
}
