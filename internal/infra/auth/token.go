package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure Issuer implements domain.TokenIssuer.
var _ domain.TokenIssuer = (*Issuer)(nil)

const issuerName = "focusday"

// Claims are the token claims; the subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens.
type Issuer struct {
	clock  domain.Clock
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. An empty secret is rejected.
func NewIssuer(secret string, ttl time.Duration, clock domain.Clock) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// Issue returns a signed token for userID.
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.clock.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user ID carried by token.
// Any parse, signature or expiry failure is ErrInvalidCredentials.
func (i *Issuer) Verify(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrInvalidCredentials)
	}
	return claims.Subject, nil
}
