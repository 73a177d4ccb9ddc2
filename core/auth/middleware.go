package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
)

// Identify copies the session identity into the request context. It expects
// the session to be loaded already by sm.LoadAndSave.
func Identify(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if c, ok := Load(ctx, sm); ok {
				ctx = claims.Set(ctx, c)
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Admin lets the request through only for an admin session. Anyone else is
// redirected to the index and the handler never runs.
func Admin() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAdmin(ctx) {
				return web.Redirect(ctx, w, r, "/")
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate runs the handler for requests with a session identity and
// fallback for the rest.
func Authenticate(fallback web.Handler) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, err := claims.Get(ctx); err != nil {
				return fallback(ctx, w, r)
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// RedirectToItem sends anonymous visitors back to the detail page of the
// item named by the {id} path parameter.
func RedirectToItem(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Redirect(ctx, w, r, "/book-page/"+web.Param(r, "id"))
}

func Deny(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return apperr.E(apperr.Unauthenticated, errors.New("session required"))
}
