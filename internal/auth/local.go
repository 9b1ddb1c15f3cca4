package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/storage"
)

// LocalAuthProvider looks tokens up in the user repository.
type LocalAuthProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	if token == "" {
		return nil, internal.ErrUnauthorized
	}
	user, err := a.users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			a.logger.Warnf("invalid token")
			return nil, internal.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return user, nil
}

func NewLocalAuthProvider(users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{users: users, logger: logger}
}
