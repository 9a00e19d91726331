package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/client/cache"
	"github.com/dmitrijs2005/taskboard/internal/client/client"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

// AuthService signs users in and out. Any identity change wipes the whole
// cache so one account never sees another's tasks.
type AuthService struct {
	api      client.API
	store    cache.Store
	session  *Session
	notifier Notifier
}

// NewAuthService wires an AuthService. n may be nil.
func NewAuthService(api client.API, store cache.Store, session *Session, n Notifier) *AuthService {
	if n == nil {
		n = nopNotifier{}
	}
	return &AuthService{api: api, store: store, session: session, notifier: n}
}

func (a *AuthService) switchTo(ctx context.Context, u *models.User) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.session.set(u)
	return nil
}

func (a *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	u, err := a.api.Register(ctx, email, password, name)
	if err != nil {
		return nil, surface(a.notifier, err, "Registration failed")
	}
	if err := a.switchTo(ctx, u); err != nil {
		return nil, surface(a.notifier, err, "Failed to reset local cache")
	}
	return u, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, surface(a.notifier, err, "Login failed")
	}
	if err := a.switchTo(ctx, u); err != nil {
		return nil, surface(a.notifier, err, "Failed to reset local cache")
	}
	return u, nil
}

// Logout is best effort: the local token, cookies, session and cache are
// dropped whatever the server answers. The server error, if any, is still
// returned.
func (a *AuthService) Logout(ctx context.Context) error {
	apiErr := a.api.Logout(ctx)

	a.api.ClearSession()
	a.session.clear()
	cacheErr := a.store.Clear(ctx)

	if err := errors.Join(apiErr, cacheErr); err != nil {
		return surface(a.notifier, err, "Logout failed")
	}
	return nil
}

// Me asks the server who the current token belongs to. A rejected token
// signs the client out locally.
func (a *AuthService) Me(ctx context.Context) (*models.User, error) {
	u, err := a.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotFound) {
			a.api.ClearSession()
			a.session.clear()
			_ = a.store.Clear(ctx)
		}
		return nil, surface(a.notifier, err, "Failed to get user")
	}

	if u.ID != a.session.UserID() {
		if err := a.switchTo(ctx, u); err != nil {
			return nil, surface(a.notifier, err, "Failed to reset local cache")
		}
	}
	return u, nil
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

func (a *AuthService) Session() *Session {
	return a.session
}
