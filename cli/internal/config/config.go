// Package config resolves CLI configuration from config files, environment
// variables and .env files.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is swappable for tests.
var AppFs = afero.NewOsFs()

// Config holds the resolved CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
	QueryPath   string
	Development bool
}

// Load resolves configuration in priority order: flags (handled by the
// commands), environment, .env files, then config file defaults.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".queryforge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "queryforge"))

	viper.SetEnvPrefix("QUERYFORGE")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "mysql")
	viper.SetDefault("query_path", "query.json")
	viper.SetDefault("development", false)

	// Missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:    viper.GetString("provider"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		QueryPath:   viper.GetString("query_path"),
		Development: viper.GetBool("development"),
	}
	return cfg, nil
}

// Save writes the configuration to the user config directory.
func Save(cfg *Config) error {
	viper.Set("provider", cfg.Provider)
	viper.Set("query_path", cfg.QueryPath)
	viper.Set("development", cfg.Development)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "queryforge")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configPath, ".queryforge.yaml"))
}
