package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/database"
	"github.com/jmoiron/sqlx"
)

const columns = `item_id, title, description, price_cents, created_at`

func Create(ctx context.Context, db sqlx.ExtContext, it Item) (Item, error) {
	const q = `
	INSERT INTO items (title, description, price_cents, created_at)
	VALUES (:title, :description, :price_cents, :created_at)
	RETURNING item_id`

	id, err := database.NamedInsertContext(ctx, db, q, it)
	if err != nil {
		return Item{}, apperr.E(apperr.PersistenceFailure, fmt.Errorf("inserting item: %w", err))
	}

	it.ID = id
	return it, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int64) (Item, error) {
	q := `SELECT ` + columns + ` FROM items WHERE item_id = ?`

	var it Item
	if err := database.GetContext(ctx, db, &it, q, id); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return Item{}, apperr.E(apperr.NotFound, fmt.Errorf("item[%d]: %w", id, err))
		}
		return Item{}, fmt.Errorf("selecting item[%d]: %w", id, err)
	}

	return it, nil
}

// FetchByIDs returns the items whose id is in ids, in the order of ids.
// Ids with no matching row are skipped.
func FetchByIDs(ctx context.Context, db sqlx.ExtContext, ids []int64) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}

	q := `SELECT ` + columns + ` FROM items WHERE item_id IN (?)`

	var found []Item
	if err := database.InContext(ctx, db, &found, q, ids); err != nil {
		return nil, fmt.Errorf("selecting items by id: %w", err)
	}

	byID := make(map[int64]Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	items := make([]Item, 0, len(found))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}

	return items, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Item, error) {
	q := `SELECT ` + columns + ` FROM items ORDER BY created_at, item_id`

	items := []Item{}
	if err := database.SelectContext(ctx, db, &items, q); err != nil {
		return nil, fmt.Errorf("selecting items: %w", err)
	}

	return items, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	UPDATE items SET
		title = :title,
		description = :description,
		price_cents = :price_cents
	WHERE item_id = :item_id`

	if err := database.NamedExecContext(ctx, db, q, it); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return apperr.E(apperr.NotFound, fmt.Errorf("item[%d]: %w", it.ID, err))
		}
		return apperr.E(apperr.PersistenceFailure, fmt.Errorf("updating item[%d]: %w", it.ID, err))
	}

	return nil
}

// Delete removes the item row. Carts referencing id are left untouched.
func Delete(ctx context.Context, db sqlx.ExtContext, id int64) error {
	const q = `DELETE FROM items WHERE item_id = :item_id`

	if err := database.NamedExecContext(ctx, db, q, map[string]any{"item_id": id}); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return apperr.E(apperr.NotFound, fmt.Errorf("item[%d]: %w", id, err))
		}
		return apperr.E(apperr.PersistenceFailure, fmt.Errorf("deleting item[%d]: %w", id, err))
	}

	return nil
}

// Apply copies the fields present in up onto it.
func Apply(it Item, up ItemUp) Item {
	if up.Title != nil {
		it.Title = *up.Title
	}
	if up.Description != nil {
		it.Description = *up.Description
	}
	if up.Price != nil {
		it.Price = *up.Price
	}
	return it
}
