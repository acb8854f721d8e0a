package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-product-api/internal/config"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for every verification failure, expiry included.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies bearer tokens.
// Implementations are JWTService (HS256) and PasetoService (PASETO v4.local).
// Both encode times in whole seconds, so a token is issued at now truncated
// to the second and expires TokenTTL after that.
type TokenService interface {
	CreateToken(subject uuid.UUID, now time.Time) (string, error)
	VerifyToken(token string, now time.Time) (*TokenClaims, error)
}

// NewTokenService builds the TokenService selected by AUTH_TOKEN_FORMAT.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatJWT, "":
		return NewJWTService(cfg.Secret)
	case config.TokenFormatPaseto:
		return NewPasetoService(cfg.Secret)
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}
