package utils // package utils provides helpers for issuing identity tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/learning-hub/internal/model"
)

// AccessToken represents a signed JWT along with its expiry.  The token's
// subject is the caller identity the registry will act on behalf of.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for id, valid for ttl.  The
// token carries the standard sub, exp and iat claims.
func NewAccessToken(secret string, id model.Identity, ttl time.Duration) (AccessToken, error) {
	if id == "" {
		return AccessToken{}, errors.New("identity is required")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseIdentity verifies raw against secret and returns its subject.  Only
// HMAC-signed tokens with an expiry are accepted.
func ParseIdentity(secret, raw string) (model.Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return model.Identity(claims.Subject), nil
}
