package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type AuthConfig struct {
	Mode              string `mapstructure:"mode"` // local or remote
	JWTSecret         string `mapstructure:"jwt_secret"`
	CookieName        string `mapstructure:"cookie_name"`
	AdminEmail        string `mapstructure:"admin_email"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // rest or sqlite
	Path   string `mapstructure:"path"`   // sqlite database file
}

// IsLocal returns true when entities are served from the local SQLite driver
// instead of the remote service.
func (d DatabaseConfig) IsLocal() bool {
	return d.Driver == "sqlite"
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../..")

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("auth.mode", "remote")
	viper.SetDefault("auth.jwt_secret", "changeme-secret")
	viper.SetDefault("auth.cookie_name", "auth_token")
	viper.SetDefault("database.driver", "rest")
	viper.SetDefault("database.path", "./data/backoffice.db")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
