package auth

import (
	"context"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/storage"
)

// Provider resolves a bearer token to the user it belongs to.
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider returns the remote provider for mode "remote" and the
// repository-backed local provider otherwise.
func NewProvider(mode, url string, users storage.UserRepository, logger internal.Logger) Provider {
	if mode == "remote" {
		return NewRemoteAuthProvider(url, users, logger)
	}
	return NewLocalAuthProvider(users, logger)
}
