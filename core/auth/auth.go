package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/core/user"
	"github.com/irsalhamdi/e-commerce-books/database"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for new passwords.
var HashCost = bcrypt.DefaultCost

// bcrypt only hashes the first 72 bytes of a password and rejects longer
// input, while the max tag on RegisterForm counts runes.
const maxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

type RegisterForm struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user with the default role and an empty cart. The email
// is checked before the username, so a request clashing on both reports
// DuplicateEmail.
func Register(ctx context.Context, db *sqlx.DB, form RegisterForm) (claims.Claims, error) {
	if len(form.Password) > maxPasswordBytes {
		return claims.Claims{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), HashCost)
	if err != nil {
		return claims.Claims{}, fmt.Errorf("hashing password: %w", err)
	}

	u := user.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: string(hash),
		Role:         claims.RoleUser,
		CartItems:    user.Cart{},
		CreatedAt:    time.Now().UTC(),
	}

	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		taken, err := exists(user.FetchByEmail(ctx, tx, u.Email))
		if err != nil {
			return err
		}
		if taken {
			return apperr.New(apperr.DuplicateEmail, "email already registered")
		}

		taken, err = exists(user.FetchByUsername(ctx, tx, u.Username))
		if err != nil {
			return err
		}
		if taken {
			return apperr.New(apperr.DuplicateUsername, "username already taken")
		}

		u, err = user.Create(ctx, tx, u)
		return err
	})
	if err != nil {
		return claims.Claims{}, fmt.Errorf("registering user[%s]: %w", form.Username, err)
	}

	return claims.Claims{Username: u.Username, Role: u.Role}, nil
}

func exists(_ user.User, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case apperr.IsKind(err, apperr.NotFound):
		return false, nil
	default:
		return false, err
	}
}

func Login(ctx context.Context, db sqlx.ExtContext, form LoginForm) (claims.Claims, error) {
	u, err := user.FetchByUsername(ctx, db, form.Username)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return claims.Claims{}, apperr.E(apperr.InvalidCredentials, err)
		}
		return claims.Claims{}, fmt.Errorf("logging in user[%s]: %w", form.Username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.Password)); err != nil {
		return claims.Claims{}, apperr.E(apperr.InvalidCredentials, fmt.Errorf("user[%s]: %w", form.Username, err))
	}

	return claims.Claims{Username: u.Username, Role: u.Role}, nil
}
