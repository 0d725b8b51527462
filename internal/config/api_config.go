package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
}

type API struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the REST API root, e.g. "https://shop.example.com/api".
// Every endpoint path is resolved against it.
func (a API) GetAPIBaseURL() string {
	return a.BaseURL
}

func (a API) GetRequestTimeout() time.Duration {
	return a.Timeout
}
