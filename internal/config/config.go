// Package config loads application settings from configs/config.yml,
// an optional .env file and RECIPES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RECIPES"

type Config struct {
	Port     string `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	Testing  bool   `mapstructure:"testing"`
	LogLevel string `mapstructure:"log_level"`

	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	CSRF    CSRFConfig    `mapstructure:"csrf"`
	Bcrypt  BcryptConfig  `mapstructure:"bcrypt"`
	Mail    MailConfig    `mapstructure:"mail"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

type CSRFConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

type MailConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

var ErrMissingSecret = errors.New("session.secret must be set outside debug/testing mode")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)
	v.SetDefault("testing", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.secure", false)
	v.SetDefault("csrf.enabled", true)
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "noreply@familyrecipes.local")
	v.SetDefault("mail.timeout", 10*time.Second)
}

// Load reads config.yml from the given directories (default "configs").
// A missing file is not an error; defaults and environment still apply.
func Load(dirs ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d) // <dir>/config.yml
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if !c.Debug && !c.Testing {
			return ErrMissingSecret
		}
		c.Session.Secret = "insecure-development-secret"
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return errors.New("mail.host is required when mail.enabled is true")
	}
	return nil
}

// MailActive reports whether outbound mail should go over SMTP.
func (c *Config) MailActive() bool {
	return c.Mail.Enabled && !c.Testing
}
