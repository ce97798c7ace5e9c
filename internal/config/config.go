package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds application-specific configuration.
type AppConfig struct {
	PollInterval int `mapstructure:"poll_interval"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DockerConfig holds the container runtime connection settings. An
// empty host means autodetection: DOCKER_HOST first, then well-known
// socket paths.
type DockerConfig struct {
	Host        string `mapstructure:"host"`
	StopTimeout int    `mapstructure:"stop_timeout"`
}

// RegistryConfig holds remote image registry search settings.
type RegistryConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// StoreConfig holds the local VM configuration store settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the top-level configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  LoggingConfig  `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Docker   DockerConfig   `mapstructure:"docker"`
	Registry RegistryConfig `mapstructure:"registry"`
	Store    StoreConfig    `mapstructure:"store"`
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cargobay.db"
	}
	return filepath.Join(dir, "cargobay", "cargobay.db")
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
func InitConfig() error {
	// Set defaults for each sub-configuration.
	viper.SetDefault("app.poll_interval", 3)
	viper.SetDefault("log.log_level", "INFO")
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 7180)
	viper.SetDefault("docker.host", "")
	viper.SetDefault("docker.stop_timeout", 10)
	viper.SetDefault("registry.page_size", 25)
	viper.SetDefault("store.path", defaultStorePath())

	// Specify the config file details.
	viper.SetConfigName("config") // Looks for config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // current directory

	// Read the config file if available.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load() (*Config, error) {
	if err := InitConfig(); err != nil {
		return nil, err
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &config, nil
}
