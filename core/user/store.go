package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/database"
	"github.com/jmoiron/sqlx"
)

const columns = `user_id, username, email, password_hash, role, cart_items, created_at`

func Create(ctx context.Context, db sqlx.ExtContext, u User) (User, error) {
	const q = `
	INSERT INTO users (username, email, password_hash, role, cart_items, created_at)
	VALUES (:username, :email, :password_hash, :role, :cart_items, :created_at)
	RETURNING user_id`

	id, err := database.NamedInsertContext(ctx, db, q, u)
	if err != nil {
		switch {
		case database.DuplicatedColumn(err, "email"):
			return User{}, apperr.E(apperr.DuplicateEmail, err)
		case database.DuplicatedColumn(err, "username"):
			return User{}, apperr.E(apperr.DuplicateUsername, err)
		}
		return User{}, apperr.E(apperr.PersistenceFailure, fmt.Errorf("inserting user: %w", err))
	}

	u.ID = id
	return u, nil
}

func FetchByUsername(ctx context.Context, db sqlx.ExtContext, username string) (User, error) {
	return fetchBy(ctx, db, "username", username)
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	return fetchBy(ctx, db, "email", email)
}

func fetchBy(ctx context.Context, db sqlx.ExtContext, column string, value string) (User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE ` + column + ` = ?`

	var u User
	if err := database.GetContext(ctx, db, &u, q, value); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return User{}, apperr.E(apperr.NotFound, fmt.Errorf("user with %s[%s]: %w", column, value, err))
		}
		return User{}, fmt.Errorf("selecting user by %s: %w", column, err)
	}

	return u, nil
}

// UpdateCart writes u.CartItems back to its row. The write is unconditional:
// two requests mutating the same cart concurrently race and the last one wins.
func UpdateCart(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `UPDATE users SET cart_items = :cart_items WHERE user_id = :user_id`

	if err := database.NamedExecContext(ctx, db, q, u); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return apperr.E(apperr.NotFound, fmt.Errorf("user[%d]: %w", u.ID, err))
		}
		return apperr.E(apperr.PersistenceFailure, fmt.Errorf("updating cart of user[%d]: %w", u.ID, err))
	}

	return nil
}

func UpdateRole(ctx context.Context, db sqlx.ExtContext, username string, role string) error {
	const q = `UPDATE users SET role = :role WHERE username = :username`

	arg := map[string]any{"role": role, "username": username}
	if err := database.NamedExecContext(ctx, db, q, arg); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return apperr.E(apperr.NotFound, fmt.Errorf("user[%s]: %w", username, err))
		}
		return apperr.E(apperr.PersistenceFailure, fmt.Errorf("updating role of user[%s]: %w", username, err))
	}

	return nil
}
