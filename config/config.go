package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API APIConfig
	Log LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from an optional config file, .env and
// environment variables. Environment variables use the CINEADMIN_ prefix,
// e.g. CINEADMIN_API_BASE_URL.
func Load(confPath string) (*Config, error) {
	// .env values only fill gaps in the real environment.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if confPath != "" {
		viper.AddConfigPath(confPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/cineadmin-tui")
	}

	// Defaults to allow running without config file
	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("api.timeout", "12s")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CINEADMIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(viper.GetString("api.base_url"), "/"),
			Timeout: viper.GetDuration("api.timeout"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		},
	}
	return cfg, nil
}
