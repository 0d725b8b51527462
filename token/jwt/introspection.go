package jwt

import (
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token/keys"
)

// RevokedChecker reports whether a token id has been revoked.
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector validates access tokens issued by a Creator.
type Inspector struct {
	issuer         string
	signer         keys.Signer
	revokedChecker RevokedChecker
}

func NewInspector(issuer string, signer keys.Signer, revokedChecker RevokedChecker) *Inspector {
	return &Inspector{
		issuer:         issuer,
		signer:         signer,
		revokedChecker: revokedChecker,
	}
}

// Inspect verifies the signature, issuer and expiry of rawToken and returns its
// claims. Every failure matches errors.ErrUnauthorized.
func (i *Inspector) Inspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("empty token: %w", errors.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(rawToken, claims, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(i.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w: %w", errors.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", errors.ErrUnauthorized)
	}
	if claims.ID != "" && i.revokedChecker != nil && i.revokedChecker.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("token revoked: %w", errors.ErrUnauthorized)
	}
	return claims, nil
}
