package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/api/weberr"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/validate"
	"github.com/jmoiron/sqlx"
)

// FormView is what the login and register pages render: where to post and the
// inline error of the previous attempt, if any.
type FormView struct {
	Form     string `json:"form"`
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

func loginView(username, msg string) FormView {
	return FormView{Form: "login", Action: "/login", Username: username, Error: msg}
}

func registerView(username, msg string) FormView {
	return FormView{Form: "register", Action: "/register", Username: username, Error: msg}
}

// formError reports whether err is a credentials problem to show on the form
// rather than a failure of the request.
func formError(err error) (string, bool) {
	if errors.Is(err, ErrPasswordTooLong) {
		return err.Error(), true
	}
	switch k := apperr.KindOf(err); k {
	case apperr.DuplicateEmail, apperr.DuplicateUsername, apperr.InvalidCredentials:
		return weberr.Message(k), true
	}
	return "", false
}

func HandleLoginForm(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, loginView("", ""), http.StatusOK)
}

func HandleRegisterForm(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, registerView("", ""), http.StatusOK)
}

func HandleLogin(db *sqlx.DB, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var form LoginForm
		if err := web.Decode(w, r, &form); err != nil {
			return web.Respond(ctx, w, loginView("", fmt.Sprintf("unable to decode payload: %v", err)), http.StatusOK)
		}

		if err := validate.Check(form); err != nil {
			return web.Respond(ctx, w, loginView(form.Username, err.Error()), http.StatusOK)
		}

		clm, err := Login(ctx, db, form)
		if err != nil {
			if msg, ok := formError(err); ok {
				return web.Respond(ctx, w, loginView(form.Username, msg), http.StatusOK)
			}
			return err
		}

		if err := Establish(ctx, sm, clm); err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, "/")
	}
}

func HandleRegister(db *sqlx.DB, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var form RegisterForm
		if err := web.Decode(w, r, &form); err != nil {
			return web.Respond(ctx, w, registerView("", fmt.Sprintf("unable to decode payload: %v", err)), http.StatusOK)
		}

		if err := validate.Check(form); err != nil {
			return web.Respond(ctx, w, registerView(form.Username, err.Error()), http.StatusOK)
		}

		clm, err := Register(ctx, db, form)
		if err != nil {
			if msg, ok := formError(err); ok {
				return web.Respond(ctx, w, registerView(form.Username, msg), http.StatusOK)
			}
			return err
		}

		if err := Establish(ctx, sm, clm); err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, "/")
	}
}

func HandleLogout(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := Clear(ctx, sm); err != nil {
			return err
		}
		return web.Redirect(ctx, w, r, "/")
	}
}

// HandleWhoAmI renders the identity of the current session.
func HandleWhoAmI(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	clm, err := claims.Get(ctx)
	if err != nil {
		return apperr.E(apperr.Unauthenticated, err)
	}
	return web.Respond(ctx, w, clm, http.StatusOK)
}
