package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// tokenVersion is stamped into every issued credential.
const tokenVersion = 1

// TokenIssuer issues and verifies HS256-signed session credentials with a
// fixed validity window.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a token issuer. The secret must be non-empty.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("session token secret is empty")
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed session token. Returns the token and its validity
// duration in seconds.
func (t *TokenIssuer) Issue() (string, int64, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
		"v":   tokenVersion,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign session token: %w", err)
	}

	return signed, int64(t.ttl.Seconds()), nil
}

// Verify checks the token signature and expiry. On success it returns the
// remaining validity, computed as max(0, exp-now). Expired tokens yield a
// session_expired error, anything else invalid_session.
func (t *TokenIssuer) Verify(tokenString string) (time.Duration, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apierrors.SessionExpired("session token has expired")
		}
		return 0, apierrors.InvalidSession("session token is not valid", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apierrors.InvalidSession("session token claims are not valid", nil)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, apierrors.InvalidSession("session token has no expiry", err)
	}

	remaining := exp.Sub(t.now())
	if remaining <= 0 {
		return 0, apierrors.SessionExpired("session token has expired")
	}
	return remaining, nil
}
