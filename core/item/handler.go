package item

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/validate"
	"github.com/jmoiron/sqlx"
)

type ListView struct {
	Username string `json:"username,omitempty"`
	Items    []Item `json:"items"`
}

type AdminView struct {
	Items []Item `json:"items"`
	Error string `json:"error,omitempty"`
}

type EditView struct {
	Item  Item   `json:"item"`
	Error string `json:"error,omitempty"`
}

func pathID(r *http.Request) (int64, error) {
	id, err := validate.ParseID(web.Param(r, "id"))
	if err != nil {
		return 0, apperr.E(apperr.NotFound, err)
	}
	return id, nil
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		items, err := List(ctx, db)
		if err != nil {
			return err
		}

		v := ListView{Items: items}
		if clm, err := claims.Get(ctx); err == nil {
			v.Username = clm.Username
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		it, err := Fetch(ctx, db, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleAdmin(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return respondAdmin(ctx, w, db, "")
	}
}

func respondAdmin(ctx context.Context, w http.ResponseWriter, db *sqlx.DB, msg string) error {
	items, err := List(ctx, db)
	if err != nil {
		return err
	}
	return web.Respond(ctx, w, AdminView{Items: items, Error: msg}, http.StatusOK)
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return respondAdmin(ctx, w, db, fmt.Sprintf("unable to decode payload: %v", err))
		}

		if err := validate.Check(in); err != nil {
			return respondAdmin(ctx, w, db, err.Error())
		}

		it := Item{
			Title:       in.Title,
			Description: in.Description,
			Price:       in.Price,
			CreatedAt:   time.Now().UTC(),
		}

		if _, err := Create(ctx, db, it); err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, "/admin")
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if err := Delete(ctx, db, id); err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, "/admin")
	}
}

func HandleEdit(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		it, err := Fetch(ctx, db, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, EditView{Item: it}, http.StatusOK)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		it, err := Fetch(ctx, db, id)
		if err != nil {
			return err
		}

		var up ItemUp
		if err := web.Decode(w, r, &up); err != nil {
			v := EditView{Item: it, Error: fmt.Sprintf("unable to decode payload: %v", err)}
			return web.Respond(ctx, w, v, http.StatusOK)
		}

		if err := validate.Check(up); err != nil {
			return web.Respond(ctx, w, EditView{Item: it, Error: err.Error()}, http.StatusOK)
		}

		if err := Update(ctx, db, Apply(it, up)); err != nil {
			return err
		}

		return web.Redirect(ctx, w, r, "/admin")
	}
}
