package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-session/token/keys"
	"github.com/jrsteele09/go-admin-session/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims are the claims of a dashboard access token.
type Claims struct {
	Email string         `json:"email,omitempty"`
	Role  users.RoleType `json:"role,omitempty"`
	jwtlib.RegisteredClaims
}

// Creator issues signed access tokens.
type Creator struct {
	issuer string
	expiry time.Duration
	signer keys.Signer
}

func NewCreator(issuer string, expiry time.Duration, signer keys.Signer) *Creator {
	return &Creator{
		issuer: issuer,
		expiry: expiry,
		signer: signer,
	}
}

// CreateAccessToken returns a token for user carrying its id, email and role.
func (c *Creator) CreateAccessToken(user *users.User) (string, time.Time, error) {
	now := NowTimeFunc()
	exp := now.Add(c.expiry)
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   user.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			ID:        uuid.New().String(), // jti, used for revocation
		},
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, exp, nil
}
