package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Ledger   Ledger   `mapstructure:"ledger"`
	Finnhub  Provider `mapstructure:"finnhub"`
	Polygon  Provider `mapstructure:"polygon"`
}

// Server holds the configuration for the HTTP server.
type Server struct {
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Ledger holds the configuration for the paper-trading ledger.
// SeedAmount funds the wallet on first startup; 0 leaves funding to the
// deposit endpoint.
type Ledger struct {
	SeedAmount float64 `mapstructure:"seed_amount"`
}

// Provider holds the configuration for a market-data provider.
// BaseURL is overridable so the client can be pointed at a stub server.
type Provider struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.static_dir", "./static")
	viper.SetDefault("database.dsn", "papertrade.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("finnhub.rate_limit", 10) // requests per second
	viper.SetDefault("finnhub.rate_limit_burst", 5)
	viper.SetDefault("polygon.rate_limit", 5)
	viper.SetDefault("polygon.rate_limit_burst", 5)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
