package config

import (
	"fmt"
	"time"
)

const (
	StoreBolt   = "bolt"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type SessionConfig interface {
	GetRefreshInterval() time.Duration
	GetStoreDriver() string
	GetStorePath() string
	GetStoreProfile() string
	GetRedisURL() string
	GetLoginRoute() string
	GetDefaultRoute() string
}

type Session struct {
	RefreshInterval time.Duration `env:"SESSION_REFRESH_INTERVAL" envDefault:"14m"`
	Store           string        `env:"SESSION_STORE" envDefault:"bolt"`
	StorePath       string        `env:"SESSION_STORE_PATH" envDefault:"./data/session.db"`
	Profile         string        `env:"SESSION_PROFILE" envDefault:"default"`
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LoginRoute      string        `env:"LOGIN_ROUTE" envDefault:"/login"`
	DefaultRoute    string        `env:"DEFAULT_ROUTE" envDefault:"/"`
}

var _ SessionConfig = Session{}

func (s Session) validate() error {
	switch s.Store {
	case StoreBolt, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", s.Store)
	}
	if s.RefreshInterval <= 0 {
		return fmt.Errorf("SESSION_REFRESH_INTERVAL must be positive, got %s", s.RefreshInterval)
	}
	return nil
}

func (s Session) GetRefreshInterval() time.Duration {
	return s.RefreshInterval
}

func (s Session) GetStoreDriver() string {
	return s.Store
}

func (s Session) GetStorePath() string {
	return s.StorePath
}

// GetStoreProfile names the bucket / hash that holds the persisted credentials,
// so one store can keep sessions for several API environments apart.
func (s Session) GetStoreProfile() string {
	return s.Profile
}

func (s Session) GetRedisURL() string {
	return s.RedisURL
}

func (s Session) GetLoginRoute() string {
	return s.LoginRoute
}

func (s Session) GetDefaultRoute() string {
	return s.DefaultRoute
}
