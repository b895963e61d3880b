package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/tokens"
	"github.com/yungbote/gigpost-backend/internal/types"
)

const testSecret = "test-secret"

func testMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	return NewAuthMiddleware(log, testSecret)
}

func signToken(t *testing.T, secret string, claims tokens.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseTokenExtractsCallerIdentity(t *testing.T) {
	am := testMiddleware(t)
	signed := signToken(t, testSecret, tokens.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: "ada",
		DeviceID: "device-9",
		Roles:    []string{string(types.RolePlatformAdmin)},
	})

	rd, err := am.parseToken(signed)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if rd.UserReference != "user-1" {
		t.Fatalf("user reference: want=user-1 got=%s", rd.UserReference)
	}
	if rd.Username != "ada" || rd.DeviceID != "device-9" {
		t.Fatalf("claims not carried over: %+v", rd)
	}
	if !rd.HasRole(types.RolePlatformAdmin) {
		t.Fatalf("role not carried over: %+v", rd.Roles)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	am := testMiddleware(t)
	signed := signToken(t, "other-secret", tokens.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := am.parseToken(signed); err == nil {
		t.Fatalf("expected a signature error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	am := testMiddleware(t)
	signed := signToken(t, testSecret, tokens.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if _, err := am.parseToken(signed); err == nil {
		t.Fatalf("expected an expiry error")
	}
}

func TestParseTokenRejectsMissingSubject(t *testing.T) {
	am := testMiddleware(t)
	signed := signToken(t, testSecret, tokens.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := am.parseToken(signed); err == nil {
		t.Fatalf("expected a missing-subject error")
	}
}
