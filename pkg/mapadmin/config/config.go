// Package config loads the mapadmin configuration from an optional YAML file
// and MAPADMIN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MAPADMIN_SERVER_PORT
const EnvPrefix = "MAPADMIN"

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Mail      MailConfig      `mapstructure:"mail"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
	Metrics         bool          `mapstructure:"metrics"`
	BaseURL         string        `mapstructure:"base_url" validate:"omitempty,url"` // Prefix of SCIM resource locations
}

// DatabaseConfig selects the GORM driver
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	DSN      string `mapstructure:"dsn" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=silent error warn info"`
}

// JWTConfig configures token signing
type JWTConfig struct {
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	TTL    time.Duration `mapstructure:"ttl" validate:"required"`
	Issuer string        `mapstructure:"issuer"`
}

// MailConfig configures outgoing notifications. An empty Host logs mails
// instead of sending them.
type MailConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port" validate:"min=0,max=65535"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from" validate:"required,email"`
	TLS      string        `mapstructure:"tls" validate:"oneof=none opportunistic mandatory"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Product  string        `mapstructure:"product"` // Product name used in subjects and bodies
}

// DefaultsConfig names the records attached to new users
type DefaultsConfig struct {
	MapConfigID      uint `mapstructure:"map_config_id"`
	WmsProxyConfigID uint `mapstructure:"wms_proxy_config_id"`
	WfsProxyConfigID uint `mapstructure:"wfs_proxy_config_id"`
	PasswordLength   int  `mapstructure:"password_length" validate:"min=8,max=64"`
}

// BootstrapConfig describes the superadmin created on first start
type BootstrapConfig struct {
	SuperadminName     string `mapstructure:"superadmin_name"`
	SuperadminEmail    string `mapstructure:"superadmin_email"`
	SuperadminPassword string `mapstructure:"superadmin_password"`
}

// LogConfig configures slog
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.base_url", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "mapadmin.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.secret", "mapadmin-dev-secret-change-in-production")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "mapadmin")

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 25)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "admin@mapadmin.local")
	v.SetDefault("mail.tls", "opportunistic")
	v.SetDefault("mail.timeout", 15*time.Second)
	v.SetDefault("mail.product", "mapadmin")

	v.SetDefault("defaults.map_config_id", 1)
	v.SetDefault("defaults.wms_proxy_config_id", 1)
	v.SetDefault("defaults.wfs_proxy_config_id", 1)
	v.SetDefault("defaults.password_length", 8)

	v.SetDefault("bootstrap.superadmin_name", "superadmin")
	v.SetDefault("bootstrap.superadmin_email", "superadmin@mapadmin.local")
	v.SetDefault("bootstrap.superadmin_password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
