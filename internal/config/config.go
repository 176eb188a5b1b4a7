package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultAccessTTL     = "24h"
	defaultActivationTTL = "72h"
	defaultOpen          = "08:00"
	defaultClose         = "16:00"
	defaultSlotStep      = "15m"
	defaultGap           = "15m"
	defaultHorizonDays   = 60
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Media    MediaConfig    `mapstructure:"media"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mail     MailConfig     `mapstructure:"mail"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type AppConfig struct {
	Env         string `mapstructure:"env"`
	Port        string `mapstructure:"port"`
	BaseURL     string `mapstructure:"base_url"`
	DefaultLang string `mapstructure:"default_lang"`
	Timezone    string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTTL         time.Duration `mapstructure:"access_ttl"`
	ActivationTTL     time.Duration `mapstructure:"activation_ttl"`
	RequireActivation bool          `mapstructure:"require_activation"`
	LoginRatePerMin   int           `mapstructure:"login_rate_per_min"`
	LoginBurst        int           `mapstructure:"login_burst"`
}

// BookingConfig holds the default operating window and slot rules.
// Opening hours stored with the contact details override Open/Close.
type BookingConfig struct {
	Open        string        `mapstructure:"open"`
	Close       string        `mapstructure:"close"`
	SlotStep    time.Duration `mapstructure:"slot_step"`
	Gap         time.Duration `mapstructure:"gap"`
	HorizonDays int           `mapstructure:"horizon_days"`
}

type MediaConfig struct {
	Root        string `mapstructure:"root"`
	URLPrefix   string `mapstructure:"url_prefix"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	SlotTTL  time.Duration `mapstructure:"slot_ttl"`
}

type MailConfig struct {
	From       string `mapstructure:"from"`
	AdminEmail string `mapstructure:"admin_email"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads config.yml from the working directory or ./config, then
// applies SALON_* environment overrides. A .env file is loaded first when present.
func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

func LoadFrom(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Plain names kept for compatibility with existing deployments.
	_ = v.BindEnv("database.url", "SALON_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "SALON_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("app.env", "SALON_APP_ENV", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.default_lang", "en")
	v.SetDefault("app.timezone", "Europe/Budapest")

	v.SetDefault("log.level", "")

	v.SetDefault("database.url", "salon.db")

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.access_ttl", defaultAccessTTL)
	v.SetDefault("auth.activation_ttl", defaultActivationTTL)
	v.SetDefault("auth.require_activation", true)
	v.SetDefault("auth.login_rate_per_min", 10)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("booking.open", defaultOpen)
	v.SetDefault("booking.close", defaultClose)
	v.SetDefault("booking.slot_step", defaultSlotStep)
	v.SetDefault("booking.gap", defaultGap)
	v.SetDefault("booking.horizon_days", defaultHorizonDays)

	v.SetDefault("media.root", "./media")
	v.SetDefault("media.url_prefix", "/media")
	v.SetDefault("media.max_upload_mb", 10)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.slot_ttl", "5m")

	v.SetDefault("mail.from", "noreply@dogsalon.local")
	v.SetDefault("mail.admin_email", "admin@dogsalon.local")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
}

func (c *Config) Validate() error {
	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("auth.access_ttl must be > 0")
	}
	if c.Auth.ActivationTTL <= 0 {
		return fmt.Errorf("auth.activation_ttl must be > 0")
	}
	if c.Booking.SlotStep <= 0 {
		return fmt.Errorf("booking.slot_step must be > 0")
	}
	if c.Booking.Gap < 0 {
		return fmt.Errorf("booking.gap must not be negative")
	}
	if c.Booking.HorizonDays <= 0 {
		return fmt.Errorf("booking.horizon_days must be > 0")
	}
	if err := validateWindow(c.Booking.Open, c.Booking.Close); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	if c.Media.MaxUploadMB <= 0 {
		return fmt.Errorf("media.max_upload_mb must be > 0")
	}

	if isProdLike(c.App.Env) {
		if isEmptyOrDefault(c.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release auth.jwt_secret must be set and not default")
		}
		if strings.TrimSpace(c.Database.URL) == "" {
			return fmt.Errorf("in prod/release database.url must be set")
		}
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool { return isProdLike(c.App.Env) }

func validateWindow(open, close string) error {
	o, err := time.Parse("15:04", open)
	if err != nil {
		return fmt.Errorf("booking.open: %w", err)
	}
	cl, err := time.Parse("15:04", close)
	if err != nil {
		return fmt.Errorf("booking.close: %w", err)
	}
	if !o.Before(cl) {
		return fmt.Errorf("booking.open must be before booking.close")
	}
	return nil
}

func isProdLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production", "release":
		return true
	default:
		return false
	}
}

func isEmptyOrDefault(value, def string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == def
}
