// Package config defines the application configuration and loads it from a
// YAML file, the environment and defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for anvil-calc.
type Configuration struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" yaml:"format,omitempty" validate:"oneof=json console"`
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" validate:"oneof=pretty csv json yaml"`
}

// DatabaseConfig holds the connection settings for saved results.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type,omitempty" validate:"oneof=sqlite postgres"`

	// SQLite file path or ":memory:".
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// Full postgres URL; takes precedence over the individual fields.
	URL      string `mapstructure:"url" yaml:"url,omitempty"`
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	Pool PoolConfig `mapstructure:"pool" yaml:"pool,omitempty"`
}

// PoolConfig holds postgres connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"maxOpen" yaml:"maxOpen,omitempty" validate:"min=1"`
	MaxIdle     int           `mapstructure:"maxIdle" yaml:"maxIdle,omitempty" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"maxLifetime" yaml:"maxLifetime,omitempty"`
}

// LoadConfiguration loads configuration with priority environment, then the
// YAML file, then defaults. An empty path searches for config.yaml in the
// working directory and tolerates its absence; an explicit path must exist.
func LoadConfiguration(configPath string) (*Configuration, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(constants.DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, applying the
// environment and defaults like LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// Default returns the configuration used when nothing is configured.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Database: DatabaseConfig{
			Type: constants.DatabaseSQLite,
			Path: constants.DefaultDatabasePath,
			Pool: PoolConfig{MaxOpen: 10, MaxIdle: 2, MaxLifetime: 5 * time.Minute},
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so that environment overrides apply even
// when the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("database.type", constants.DatabaseSQLite)
	v.SetDefault("database.path", constants.DefaultDatabasePath)
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.pool.maxOpen", 10)
	v.SetDefault("database.pool.maxIdle", 2)
	v.SetDefault("database.pool.maxLifetime", 5*time.Minute)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := validation.NewValidator().Validate(&configuration); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &configuration, nil
}

// ValidateConfiguration returns warnings for settings that are valid but
// likely unintended.
func (c *Configuration) ValidateConfiguration() []string {
	cv := validation.ConfigValidator{
		Database: c.Database.ToDatabaseInfo(),
		Logging:  c.Logging.ToLoggingInfo(),
	}
	return cv.ValidateAll()
}
