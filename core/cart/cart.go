// Package cart mutates the list of item ids held on a user row and resolves
// it against the catalog. The mutators touch memory only; callers persist the
// user with user.UpdateCart.
package cart

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/e-commerce-books/core/item"
	"github.com/irsalhamdi/e-commerce-books/core/user"
	"github.com/jmoiron/sqlx"
)

// Add appends itemID unless it is already in the cart.
func Add(u *user.User, itemID int64) *user.User {
	if u.CartItems == nil {
		u.CartItems = user.Cart{}
	}
	if u.CartItems.Contains(itemID) {
		return u
	}
	u.CartItems = append(u.CartItems, itemID)
	return u
}

// Remove drops itemID from the cart, keeping the order of the rest.
func Remove(u *user.User, itemID int64) *user.User {
	if len(u.CartItems) == 0 || !u.CartItems.Contains(itemID) {
		return u
	}

	kept := make(user.Cart, 0, len(u.CartItems)-1)
	for _, id := range u.CartItems {
		if id != itemID {
			kept = append(kept, id)
		}
	}
	u.CartItems = kept
	return u
}

// ListItems resolves the cart to catalog items in cart order. Ids of deleted
// items are skipped.
func ListItems(ctx context.Context, db sqlx.ExtContext, u user.User) ([]item.Item, error) {
	items, err := item.FetchByIDs(ctx, db, u.CartItems)
	if err != nil {
		return nil, fmt.Errorf("resolving cart of user[%s]: %w", u.Username, err)
	}
	return items, nil
}

// Total sums the prices of items.
func Total(items []item.Item) item.Price {
	var tot item.Price
	for _, it := range items {
		tot += it.Price
	}
	return tot
}
