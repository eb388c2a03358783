package auth

import (
	"errors"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

// session tokens live for an hour
const TokenTTL = time.Hour

// MakeToken signs an arbitrary payload as HS256 claims. Any iat/exp in
// the payload are replaced and nbf is dropped, so the token is usable
// as soon as it is issued.
func MakeToken(payload map[string]any, secret string) (string, error) {
	return makeToken(payload, secret, time.Now())
}

func makeToken(payload map[string]any, secret string, now time.Time) (string, error) {
	c := jwt.MapClaims{}
	maps.Copy(c, payload)
	delete(c, "nbf")
	c["iat"] = jwt.NewNumericDate(now)
	c["exp"] = jwt.NewNumericDate(now.Add(TokenTTL))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(raw, secret string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}
