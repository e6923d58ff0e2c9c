// Package auth covers password hashing and bearer-token issuance for the
// HTTP API: bcrypt for credentials at rest, HS256 JWTs for sessions.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long issued access tokens stay valid.
const DefaultTokenTTL = 30 * time.Minute

// HashPassword returns the bcrypt hash of a plain password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// TokenIssuerOptions configure a TokenIssuer.
type TokenIssuerOptions struct {
	// TTL bounds token lifetime. Defaults to DefaultTokenTTL.
	TTL time.Duration
}

// TokenIssuer mints and verifies HS256 access tokens whose subject is the
// account email.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer over a shared signing secret.
func NewTokenIssuer(secret string, optFns ...func(o *TokenIssuerOptions)) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: signing secret is required")
	}
	opts := TokenIssuerOptions{TTL: DefaultTokenTTL}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: opts.TTL}, nil
}

// Issue creates a signed token for the given account email.
func (i *TokenIssuer) Issue(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(i.ttl)),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the account email it was issued for.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}
