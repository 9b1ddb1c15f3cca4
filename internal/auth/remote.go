package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/storage"
)

// RemoteAuthProvider delegates token checks to an external auth service.
// The service answers POST {"token": ...} with the user as JSON. Accepted
// users are upserted locally so scores and insights have a profile to attach to.
type RemoteAuthProvider struct {
	client *resty.Client
	url    string
	users  storage.UserRepository
	logger internal.Logger
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (a *RemoteAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	if token == "" {
		return nil, internal.ErrUnauthorized
	}
	var user internal.User
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(tokenRequest{Token: token}).
		SetResult(&user).
		Post(a.url)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, fmt.Errorf("auth service: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, internal.ErrUnauthorized
	default:
		a.logger.Errorf("auth service returned %d", resp.StatusCode())
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode())
	}
	if user.ID == "" {
		return nil, internal.ErrUnauthorized
	}
	if user.Token == "" {
		user.Token = token
	}
	if err := a.users.UpsertUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("store remote user: %w", err)
	}
	return &user, nil
}

func NewRemoteAuthProvider(url string, users storage.UserRepository, logger internal.Logger) *RemoteAuthProvider {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json")
	return &RemoteAuthProvider{client: client, url: url, users: users, logger: logger}
}
