package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/credential"
	appLogger "github.com/fastygo/timetracker/pkg/logger"
	"github.com/fastygo/timetracker/repository"
)

const (
	minPasswordLength = 6
	// bcrypt only reads this many bytes of input.
	maxPasswordBytes = 72
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, *credential.Claims, error)
	Verify(token string) (*credential.Claims, error)
}

// Session is the outcome of a successful signup or login.
type Session struct {
	User      domain.PublicUser
	Token     string
	ExpiresAt time.Time
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type UseCase struct {
	users       repository.UserRepository
	revocations repository.RevocationRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      *zap.Logger
	now         func() time.Time
}

func New(
	users repository.UserRepository,
	revocations repository.RevocationRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:       users,
		revocations: revocations,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *UseCase) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrMissingFields
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	_, err := uc.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	// The unique email index still rejects a signup racing this one.
	user, err := uc.users.Create(ctx, &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	appLogger.WithRequestID(ctx, uc.logger).Info("user signed up", zap.String("user_id", user.ID))
	return uc.issue(user)
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingLogin
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issue(user)
}

// Authenticate resolves the caller behind a token. Any failure yields domain.ErrUnauthorized,
// except a revocation store outage which is returned wrapped so it can be logged.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if uc.revocations != nil {
		revoked, err := uc.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnauthorized, domain.ErrUnauthorized.Message, err)
		}
		if revoked {
			return nil, domain.ErrUnauthorized
		}
	}

	identity := &domain.Identity{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid tokens are ignored.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	if token == "" || uc.revocations == nil {
		return nil
	}
	claims, err := uc.tokens.Verify(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(uc.now())
	if err := uc.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("session revoked", zap.String("user_id", claims.UserID))
	return nil
}

func (uc *UseCase) issue(user *domain.User) (*Session, error) {
	token, claims, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
