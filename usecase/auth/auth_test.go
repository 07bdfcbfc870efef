package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/credential"
	"github.com/fastygo/timetracker/repository/memory"
)

type revocationSet struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newRevocationSet() *revocationSet {
	return &revocationSet{revoked: make(map[string]time.Duration)}
}

func (r *revocationSet) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = ttl
	return nil
}

func (r *revocationSet) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func newUseCase(t *testing.T) (*UseCase, *revocationSet) {
	t.Helper()
	store := memory.NewStore(nil)
	revocations := newRevocationSet()
	issuer := credential.NewIssuer("test-secret", "timetracker", time.Hour)
	return New(store.Users(), revocations, credential.NewHasher(bcrypt.MinCost), issuer, nil), revocations
}

func TestSignupCreatesSession(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	session, err := uc.Signup(ctx, SignupInput{Email: " ana@example.com ", Password: "secret1", Name: "Ana"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.User.ID == "" || session.User.Email != "ana@example.com" || session.Token == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	identity, err := uc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.UserID != session.User.ID {
		t.Fatalf("identity %q, want %q", identity.UserID, session.User.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SignupInput
		want error
	}{
		{"missing name", SignupInput{Email: "a@example.com", Password: "secret1"}, domain.ErrMissingFields},
		{"blank email", SignupInput{Email: "  ", Password: "secret1", Name: "A"}, domain.ErrMissingFields},
		{"short password", SignupInput{Email: "a@example.com", Password: "12345", Name: "A"}, domain.ErrWeakPassword},
		{"password over 72 bytes", SignupInput{Email: "a@example.com", Password: strings.Repeat("a", 80), Name: "A"}, domain.ErrPasswordTooLong},
	}
	for _, tc := range cases {
		if _, err := uc.Signup(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	in := SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"}

	if _, err := uc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := uc.Signup(ctx, in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	if _, err := uc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := uc.Login(ctx, "ana@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := uc.Login(ctx, "ana@example.com", strings.Repeat("a", 80)); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("login with oversized password: %v", err)
	}
	if _, err := uc.Login(ctx, "ana@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := uc.Login(ctx, "bob@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, err := uc.Login(ctx, "", "secret1"); !errors.Is(err, domain.ErrMissingLogin) {
		t.Fatalf("missing email: got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	uc, revocations := newUseCase(t)
	ctx := context.Background()
	session, err := uc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := uc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(revocations.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(revocations.revoked))
	}
	for _, ttl := range revocations.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl %v", ttl)
		}
	}

	if _, err := uc.Authenticate(ctx, session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("revoked token accepted: %v", err)
	}
	if err := uc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("logout with invalid token should be ignored, got %v", err)
	}
}

func TestAuthenticateFailsClosedOnStoreError(t *testing.T) {
	uc, revocations := newUseCase(t)
	ctx := context.Background()
	session, err := uc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	storeErr := errors.New("connection refused")
	revocations.err = storeErr
	_, err = uc.Authenticate(ctx, session.Token)
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) || !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped unauthorized error, got %v", err)
	}
}
