package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	OAuthConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	OAuth
	Cors
}

var dotEnvLoaded sync.Once

// New reads the configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func New() (Config, error) {
	dotEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config.New env.Parse: %w", err)
	}
	if err := c.Session.validate(); err != nil {
		return nil, fmt.Errorf("config.New: %w", err)
	}
	return c, nil
}

// MustNew is New for binaries that cannot start without configuration.
func MustNew() Config {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}
