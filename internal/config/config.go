package config

import (
	"fmt"
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Auth struct {
	JwtSecret   string `yaml:"jwtSecret"`
	JwtIssuer   string `yaml:"jwtIssuer"`
	JwtAudience string `yaml:"jwtAudience"`
}

// Load reads and validates the configuration. A missing JWT secret or
// postgres DSN is a fatal startup condition, not a per-request error.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Auth.JwtSecret == "" {
		return Config{}, fmt.Errorf("auth.jwtSecret is not configured")
	}
	if config.Server.PostgresDsn == "" {
		return Config{}, fmt.Errorf("server.postgresDsn is not configured")
	}
	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}

	return config, nil
}
