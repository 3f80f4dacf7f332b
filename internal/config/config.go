// Package config provides environment configuration management.
package config

import "github.com/caarlos0/env/v11"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string   `env:"PORT"            envDefault:"8080"`
	MongoURI       string   `env:"MONGO_URI"       envDefault:"mongodb://localhost:27017"`
	MongoDB        string   `env:"MONGO_DB"        envDefault:"gatherly"`
	RedisAddr      string   `env:"REDIS_ADDR"      envDefault:"redis:6379"`
	RedisPassword  string   `env:"REDIS_PASSWORD"  envDefault:""`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
