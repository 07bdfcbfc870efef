package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// GetProfile returns the public view of the caller. A token whose user no longer exists
// is treated as unauthenticated.
func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}
