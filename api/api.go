package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/e-commerce-books/api/middleware"
	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/core/auth"
	"github.com/irsalhamdi/e-commerce-books/core/cart"
	"github.com/irsalhamdi/e-commerce-books/core/checkout"
	"github.com/irsalhamdi/e-commerce-books/core/item"
	"github.com/irsalhamdi/e-commerce-books/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	Log      logrus.FieldLogger
	DB       *sqlx.DB
	Session  *scs.SessionManager
	Checkout *checkout.Bridge
	Limiter  *rate.Limiter
	Debug    bool
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, auth.Identify(cfg.Session))
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log, cfg.Debug))
	a.mw = append(a.mw, middleware.Panics())

	admin := auth.Admin()
	toItem := auth.Authenticate(auth.RedirectToItem)
	toLogin := auth.Authenticate(auth.HandleLoginForm)
	deny := auth.Authenticate(auth.Deny)

	var limit web.Middleware
	if cfg.Limiter != nil {
		limit = middleware.Limit(cfg.Limiter)
	}

	a.Handle(http.MethodGet, "/", item.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/book-page/{id:[0-9]+}", item.HandleShow(cfg.DB))

	a.Handle(http.MethodGet, "/login", auth.HandleLoginForm)
	a.Handle(http.MethodPost, "/login", auth.HandleLogin(cfg.DB, cfg.Session), limit)
	a.Handle(http.MethodGet, "/register", auth.HandleRegisterForm)
	a.Handle(http.MethodPost, "/register", auth.HandleRegister(cfg.DB, cfg.Session), limit)
	a.Handle(http.MethodGet, "/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/whoami", auth.HandleWhoAmI)

	a.Handle(http.MethodGet, "/admin", item.HandleAdmin(cfg.DB), admin)
	a.Handle(http.MethodPost, "/admin", item.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodGet, "/delete/{id:[0-9]+}", item.HandleDelete(cfg.DB), admin)
	a.Handle(http.MethodGet, "/update/{id:[0-9]+}", item.HandleEdit(cfg.DB), admin)
	a.Handle(http.MethodPost, "/update/{id:[0-9]+}", item.HandleUpdate(cfg.DB), admin)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.DB), toLogin)
	for _, m := range []string{http.MethodGet, http.MethodPost} {
		a.Handle(m, "/add-cart/{id:[0-9]+}", cart.HandleAddItem(cfg.DB), toItem)
		a.Handle(m, "/remove-cart-item/{id:[0-9]+}", cart.HandleRemoveItem(cfg.DB), deny)
		a.Handle(m, "/checkout/{id:[0-9]+}", checkout.HandleCheckout(cfg.DB, cfg.Checkout), toItem)
	}

	return cfg.Session.LoadAndSave(a.Router)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
