package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"webtop/internal/domain"
	"webtop/internal/domain/models"
)

func testVerifier(t *testing.T) (*JWKSVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	kf := func(*jwt.Token) (interface{}, error) { return &key.PublicKey, nil }
	return newVerifierWithKeyfunc(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestJWKSVerifier_VerifyToken(t *testing.T) {
	verifier, key := testVerifier(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	valid := sign(t, jwt.SigningMethodRS256, key, models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
		Role:             "authenticated",
	})
	claims, err := verifier.VerifyToken(valid)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.GetUserID() != "user-1" {
		t.Errorf("GetUserID() = %q, want user-1", claims.GetUserID())
	}

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	rejected := map[string]string{
		"empty":   "",
		"garbage": "not-a-jwt",
		"expired": sign(t, jwt.SigningMethodRS256, key, models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: past},
		}),
		"no expiry": sign(t, jwt.SigningMethodRS256, key, models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		}),
		"no subject": sign(t, jwt.SigningMethodRS256, key, models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
		}),
		"anonymous": sign(t, jwt.SigningMethodRS256, key, models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
			Role:             "anon",
		}),
		"wrong key": sign(t, jwt.SigningMethodRS256, otherKey, models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
		}),
		"hmac": sign(t, jwt.SigningMethodHS256, []byte("secret"), models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
		}),
	}

	for name, token := range rejected {
		t.Run(name, func(t *testing.T) {
			if _, err := verifier.VerifyToken(token); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("VerifyToken() error = %v, want unauthorized", err)
			}
		})
	}
}

func TestDevVerifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := NewDevVerifier("", logger); err == nil {
		t.Error("NewDevVerifier(\"\") succeeded, want error")
	}

	v, err := NewDevVerifier("dev-user", logger)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := v.VerifyToken("")
	if err != nil || claims.GetUserID() != "dev-user" {
		t.Errorf("VerifyToken() = %+v, %v", claims, err)
	}
}
