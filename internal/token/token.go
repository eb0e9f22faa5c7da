package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the token cannot be parsed at all, or
	// parses but carries no subject.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired is returned for a correctly signed token whose expiry has
	// passed. Expiry is reported as expiry, never as a signature failure.
	ErrExpired = errors.New("token expired")
	// ErrBadSignature is returned when the signature does not verify, which
	// includes tokens signed with a different secret or algorithm.
	ErrBadSignature = errors.New("token signature invalid")
)

// validMethods pins verification to HS256. Tokens claiming any other
// algorithm are rejected outright, including "none".
var validMethods = []string{jwt.SigningMethodHS256.Alg()}

// Codec issues and verifies signed identity tokens. Tokens are stateless:
// nothing is stored server-side, and revocation happens by deleting the
// user the token names.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func New(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue signs a token naming username, valid from now until now+ttl.
func (c *Codec) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify parses and validates tokenStr and returns the embedded username.
// Failures collapse to ErrMalformed, ErrExpired, or ErrBadSignature.
func (c *Codec) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods(validMethods))

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrBadSignature
	default:
		return "", ErrMalformed
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
