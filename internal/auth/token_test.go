package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenPairRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", "peso-tracker", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := manager.NewTokenPair(userID, refreshID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected access token to parse, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}

	refreshClaims, err := manager.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected refresh token to parse, got %v", err)
	}
	if refreshClaims.ID != refreshID.String() {
		t.Fatalf("unexpected refresh id: %s", refreshClaims.ID)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	manager := NewTokenManager("test-secret", "peso-tracker", 15*time.Minute, time.Hour)

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := manager.ParseRefreshToken(pair.AccessToken); err == nil {
		t.Fatal("expected access token to be rejected as refresh")
	}
	if _, err := manager.ParseAccessToken(pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to be rejected as access")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "peso-tracker", time.Minute, time.Hour)
	verifier := NewTokenManager("secret-b", "peso-tracker", time.Minute, time.Hour)

	pair, err := issuer.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := verifier.ParseAccessToken(pair.AccessToken); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestCompareTokenHash(t *testing.T) {
	token := "opaque-refresh-token"
	hash := HashToken(token)

	if !CompareTokenHash(hash, token) {
		t.Fatal("expected hash to match its token")
	}
	if CompareTokenHash(hash, "another-token") {
		t.Fatal("expected mismatched token to fail")
	}
}
