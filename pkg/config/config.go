package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port        string
	Environment string

	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	ViaCepURL string

	LokiURL      string
	OTLPEndpoint string
	MetricsPort  string

	EnforceHTTPS bool

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]CacheConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// LoadConfig reads the environment with viper and falls back to the
// development defaults.
func LoadConfig() *AppConfig {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_PATH", "usuarios.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "db/migrations")
	v.SetDefault("VIACEP_URL", "https://viacep.com.br")
	v.SetDefault("LOKI_URL", "http://localhost:3100")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("METRICS_PORT", "9091")
	v.SetDefault("ENFORCE_HTTPS", false)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("CACHE_ENABLED", false)

	v.AutomaticEnv()

	config := GetDefaultConfig()

	config.Port = v.GetString("PORT")
	config.DatabasePath = v.GetString("DATABASE_PATH")
	config.DatabaseURL = v.GetString("DATABASE_URL")
	config.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	config.ViaCepURL = v.GetString("VIACEP_URL")
	config.LokiURL = v.GetString("LOKI_URL")
	config.OTLPEndpoint = v.GetString("OTLP_ENDPOINT")
	config.MetricsPort = v.GetString("METRICS_PORT")
	config.RateLimitEnabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.CacheEnabled = v.GetBool("CACHE_ENABLED")

	if v.GetString("GIN_MODE") == "release" {
		config.Environment = "production"
		config.EnforceHTTPS = true
	}

	if v.GetBool("ENFORCE_HTTPS") {
		config.EnforceHTTPS = true
	}

	return config
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:             "8080",
		Environment:      "development",
		DatabasePath:     "usuarios.db",
		MigrationsPath:   "db/migrations",
		ViaCepURL:        "https://viacep.com.br",
		LokiURL:          "http://localhost:3100",
		OTLPEndpoint:     "localhost:4317",
		MetricsPort:      "9091",
		EnforceHTTPS:     false,
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/usuarios": {
				Requests: 100,
				Window:   time.Minute,
			},
			"/usuarios/:id": {
				Requests: 100,
				Window:   time.Minute,
			},
		},
		CacheEnabled: false,
		CacheConfigs: map[string]CacheConfig{
			"/usuarios": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
	}
}
