package credential

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash %q", hash)
	}

	ok, err := h.Compare(hash, "secret1")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = h.Compare(hash, "secret2")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestHasherOversizedPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 80)
	if _, err := h.Hash(long); !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Fatalf("hash: got %v, want ErrPasswordTooLong", err)
	}

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := h.Compare(hash, long)
	if err != nil || ok {
		t.Fatalf("expected plain mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestNewHasherFallsBackToDefaultCost(t *testing.T) {
	if h := NewHasher(0); h.cost != DefaultCost {
		t.Fatalf("cost = %d, want %d", h.cost, DefaultCost)
	}
}

func fixedIssuer(secret string, at time.Time) *Issuer {
	return NewIssuer(secret, "timetracker", time.Hour).WithClock(func() time.Time { return at })
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", now)

	token, claims, err := issuer.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at %v", claims.ExpiresAt.Time)
	}

	verified, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.UserID != "user-1" || verified.Email != "ana@example.com" || verified.ID != claims.ID {
		t.Fatalf("unexpected claims %+v", verified)
	}
}

func TestVerifyRejectsUntrustedTokens(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", now)
	token, _, err := issuer.Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	otherIssuer, _, err := NewIssuer("s3cret", "someone-else", time.Hour).
		WithClock(func() time.Time { return now }).
		Issue("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue other: %v", err)
	}

	cases := map[string]struct {
		verifier *Issuer
		token    string
	}{
		"empty":        {issuer, ""},
		"garbage":      {issuer, "not-a-token"},
		"wrong secret": {fixedIssuer("other", now), token},
		"expired":      {fixedIssuer("s3cret", now.Add(2*time.Hour)), token},
		"alg none":     {issuer, noneToken},
		"issuer":       {issuer, otherIssuer},
	}
	for name, tc := range cases {
		if _, err := tc.verifier.Verify(tc.token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
