package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-books/config"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
)

const (
	keyUsername = "username"
	keyRole     = "role"
)

func NewSessionManager(cfg config.Session) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.Secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// Establish binds c to the session, rotating the token first.
func Establish(ctx context.Context, sm *scs.SessionManager, c claims.Claims) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}

	sm.Put(ctx, keyUsername, c.Username)
	sm.Put(ctx, keyRole, c.Role)
	return nil
}

// Clear drops the session identity. Clearing an anonymous session is a no-op.
func Clear(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

func Load(ctx context.Context, sm *scs.SessionManager) (claims.Claims, bool) {
	c := claims.Claims{
		Username: sm.GetString(ctx, keyUsername),
		Role:     sm.GetString(ctx, keyRole),
	}
	return c, c.Username != ""
}
