// Package auth verifies the bearer tokens that gate the dashboard API.
// The token's subject is the owner key (the user's phone number); nothing
// below the HTTP layer ever sees the token itself.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingOwnerKey = errors.New("token has no owner key")
)

// Claims carried by a saldo access token.
type Claims struct {
	OwnerKey string   `json:"owner_key"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token grants the admin panel.
func (c *Claims) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Verifier validates HS256 tokens issued by the auth collaborator.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a token string, returning its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.OwnerKey == "" {
		return nil, ErrMissingOwnerKey
	}
	return claims, nil
}

// Issue signs a token for the given owner. The production issuer lives in
// the auth collaborator; this is used by tests and the local dev setup.
func (v *Verifier) Issue(ownerKey, name string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		OwnerKey: ownerKey,
		Name:     name,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   ownerKey,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
