package middleware_test

import (
	"context"
	"testing"
	"time"

	"Grana/config"
	"Grana/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

func newJwtService(t *testing.T, secret string) *middleware.JwtService {
	t.Helper()
	svc, err := middleware.NewJwtService(config.JWTConfig{
		Secret:          secret,
		Issuer:          "grana",
		ExpirationHours: 1,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestJwtRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newJwtService(t, "segredo-de-teste")
	userID := ulid.Make().String()

	token, expiresAt, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected signed token")
	}
	if until := time.Until(expiresAt); until < 55*time.Minute || until > 65*time.Minute {
		t.Fatalf("expected expiry about one hour ahead, got %s", until)
	}

	got, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != userID {
		t.Fatalf("expected subject %s, got %s", userID, got)
	}
}

func TestJwtRejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc := newJwtService(t, "segredo-de-teste")
	ctx := context.Background()

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.ValidateToken(ctx, "abc.def.ghi"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newJwtService(t, "outro-segredo")
		token, _, err := other.GenerateToken(ulid.Make().String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, token); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   ulid.Make().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-de-teste"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, token); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   ulid.Make().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, token); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("subject is not a ulid", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-de-teste"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, token); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestJwtRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := middleware.NewJwtService(config.JWTConfig{}, nil); err == nil {
		t.Fatalf("expected error without secret")
	}
}
