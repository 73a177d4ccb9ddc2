package cart

import (
	"context"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/core/item"
	"github.com/irsalhamdi/e-commerce-books/core/user"
	"github.com/irsalhamdi/e-commerce-books/validate"
	"github.com/jmoiron/sqlx"
)

type View struct {
	Username string      `json:"username"`
	Items    []item.Item `json:"items"`
	Total    item.Price  `json:"total"`
}

// current loads the row of the session user. A session naming a user that no
// longer exists counts as no session.
func current(ctx context.Context, db *sqlx.DB) (user.User, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return user.User{}, apperr.E(apperr.Unauthenticated, err)
	}

	u, err := user.FetchByUsername(ctx, db, clm.Username)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return user.User{}, apperr.E(apperr.Unauthenticated, err)
		}
		return user.User{}, fmt.Errorf("fetching session user: %w", err)
	}

	return u, nil
}

func itemID(r *http.Request) (int64, error) {
	id, err := validate.ParseID(web.Param(r, "id"))
	if err != nil {
		return 0, apperr.E(apperr.NotFound, err)
	}
	return id, nil
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := current(ctx, db)
		if err != nil {
			return err
		}

		items, err := ListItems(ctx, db, u)
		if err != nil {
			return err
		}

		v := View{Username: u.Username, Items: items, Total: Total(items)}
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandleAddItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := itemID(r)
		if err != nil {
			return err
		}

		if _, err := item.Fetch(ctx, db, id); err != nil {
			return err
		}

		u, err := current(ctx, db)
		if err != nil {
			return err
		}

		if err := user.UpdateCart(ctx, db, *Add(&u, id)); err != nil {
			return fmt.Errorf("adding item[%d] to cart: %w", id, err)
		}

		return web.Redirect(ctx, w, r, "/")
	}
}

func HandleRemoveItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := current(ctx, db)
		if err != nil {
			return err
		}

		id, err := itemID(r)
		if err != nil {
			return err
		}

		if err := user.UpdateCart(ctx, db, *Remove(&u, id)); err != nil {
			return fmt.Errorf("removing item[%d] from cart: %w", id, err)
		}

		return web.Redirect(ctx, w, r, "/cart")
	}
}
