package auth

import (
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()
	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	svc, err := NewTokenService(hex.EncodeToString(key), duration)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.GenerateSessionToken("user-abc", "session-xyz")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.VerifySessionToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != "user-abc" {
		t.Errorf("expected user-abc, got %s", claims.UserID)
	}
	if claims.SessionID != "session-xyz" {
		t.Errorf("expected session-xyz, got %s", claims.SessionID)
	}
}

func TestVerifySessionToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, err := svc.GenerateSessionToken("user-abc", "session-xyz")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := svc.VerifySessionToken(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestVerifySessionToken_WrongKey(t *testing.T) {
	a := newTestTokenService(t, time.Hour)
	b := newTestTokenService(t, time.Hour)

	token, err := a.GenerateSessionToken("user-abc", "session-xyz")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := b.VerifySessionToken(token); err == nil {
		t.Error("token minted with another key should not verify")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("too-short", time.Hour); err == nil {
		t.Error("expected error for short key")
	}
}
