package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := New([]byte("test-secret"), time.Hour)

	tok, err := c.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	username, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if username != "alice" {
		t.Errorf("username: got %q, want %q", username, "alice")
	}
}

func TestCodec_Expired(t *testing.T) {
	// Negative TTL produces a token that is already expired but correctly
	// signed. It must report expiry, not a signature failure.
	c := New([]byte("test-secret"), -time.Minute)

	tok, err := c.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = c.Verify(tok)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Verify: got %v, want ErrExpired", err)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	issuer := New([]byte("secret-a"), time.Hour)
	verifier := New([]byte("secret-b"), time.Hour)

	tok, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Verify(tok)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify: got %v, want ErrBadSignature", err)
	}
}

func TestCodec_WrongAlgorithm(t *testing.T) {
	secret := []byte("test-secret")
	c := New(secret, time.Hour)

	// Sign with HS384 using the same secret. Only HS256 is accepted.
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign HS384: %v", err)
	}

	_, err = c.Verify(signed)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify: got %v, want ErrBadSignature", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	c := New([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := c.Verify(tok); !errors.Is(err, ErrMalformed) {
			t.Errorf("Verify(%q): got %v, want ErrMalformed", tok, err)
		}
	}
}

func TestCodec_MissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	c := New(secret, time.Hour)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(signed); !errors.Is(err, ErrMalformed) {
		t.Errorf("Verify: got %v, want ErrMalformed", err)
	}
}
