package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIDPrefixLen = 20

// ErrNoSubject reports a token without a subject claim.
var ErrNoSubject = errors.New("token has no subject claim")

// TokenPrefix derives the local session identifier from an access token.
// Only a prefix is kept: the metadata store must never hold a usable
// credential.
func TokenPrefix(token string) string {
	if len(token) <= sessionIDPrefixLen {
		return token
	}
	return token[:sessionIDPrefixLen]
}

// UserIDFromToken extracts the subject claim from a JWT access token
// without verifying its signature. The token was already accepted by the
// identity provider; this is a local convenience for providers that do not
// return the user id alongside the token, never an authentication check.
func UserIDFromToken(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}
