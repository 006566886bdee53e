package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken reports a token that failed signature or structural
	// checks. Treated as "no credentials", never as a server fault.
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Codec signs and verifies session credential bundles with a shared HS256
// secret.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a Codec. The secret must be non-empty; there is no safe
// default for a signing key.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the iss value stamped into bundles this codec signs.
func (c *Codec) Issuer() string { return c.issuer }

// Sign produces a compact HS256 JWT for the given claims.
func (c *Codec) Sign(claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and signature-checks a bundle. Registered-claim validation
// is skipped on purpose: bundle lifetime is governed by the referenced
// session record, not by an exp claim.
func (c *Codec) Verify(raw string) (SessionClaims, error) {
	var claims SessionClaims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return SessionClaims{}, ErrInvalidToken
	}

	return claims, nil
}
