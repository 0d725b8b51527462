package config

import "time"

// OAuthConfig holds the token settings of the development backend.
type OAuthConfig interface {
	GetJWTSecret() string
	GetRefreshTokenLength() int
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
	GetAdminEmail() string
	GetAdminPassword() string
}

type OAuth struct {
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	AdminEmail         string        `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword      string        `env:"ADMIN_PASSWORD" envDefault:"Admin1234"`
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetJWTSecret() string {
	return o.JWTSecret
}

func (OAuth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (o OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return o.AccessTokenExpiry
}

func (o OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return o.RefreshTokenExpiry
}

func (o OAuth) GetAdminEmail() string {
	return o.AdminEmail
}

func (o OAuth) GetAdminPassword() string {
	return o.AdminPassword
}
