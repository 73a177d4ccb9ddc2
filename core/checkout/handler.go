package checkout

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/item"
	"github.com/irsalhamdi/e-commerce-books/validate"
	"github.com/jmoiron/sqlx"
)

func HandleCheckout(db *sqlx.DB, b *Bridge) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return apperr.E(apperr.NotFound, err)
		}

		it, err := item.Fetch(ctx, db, id)
		if err != nil {
			return err
		}

		url, err := b.CreateSession(ctx, it)
		if err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, url)
	}
}
