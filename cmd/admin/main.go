// Command admin runs offline maintenance tasks against the store:
//
//	admin promote <username>
//	admin upload <path> [key]
//	admin presign <key> [ttl]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/config"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/core/user"
	"github.com/irsalhamdi/e-commerce-books/database"
	"github.com/irsalhamdi/e-commerce-books/storage"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DB      config.DB
	Storage config.Storage
	Args    conf.Args
}

var errUsage = errors.New("usage: admin promote <username> | upload <path> [key] | presign <key> [ttl]")

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := Run(log, os.Stdout); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(log *logrus.Logger, out io.Writer) error {
	const prefix = "BOOKS"
	var cfg Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Fprintln(out, help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	ctx := context.Background()

	switch cfg.Args.Num(0) {
	case "promote":
		return promote(ctx, out, cfg.DB, cfg.Args.Num(1))
	case "upload":
		return upload(ctx, log, out, cfg.Storage, cfg.Args.Num(1), cfg.Args.Num(2))
	case "presign":
		return presign(ctx, log, out, cfg.Storage, cfg.Args.Num(1), cfg.Args.Num(2))
	}

	return errUsage
}

func promote(ctx context.Context, out io.Writer, dbCfg config.DB, username string) error {
	if username == "" {
		return errUsage
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	err = user.UpdateRole(ctx, db, username, claims.RoleAdmin)
	if apperr.IsKind(err, apperr.NotFound) {
		fmt.Fprintf(out, "user %q does not exist\n", username)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "user %q is now an admin\n", username)
	return nil
}

// objectKey is key, or a fresh UUID keeping the extension of path.
func objectKey(path string, key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString() + filepath.Ext(path)
}

func upload(ctx context.Context, log *logrus.Logger, out io.Writer, cfg config.Storage, path string, key string) error {
	if path == "" {
		return errUsage
	}

	b, err := storage.New(log, cfg)
	if err != nil {
		return err
	}

	key = objectKey(path, key)
	if err := b.Upload(ctx, path, key); err != nil {
		return err
	}

	fmt.Fprintln(out, key)
	return nil
}

func presign(ctx context.Context, log *logrus.Logger, out io.Writer, cfg config.Storage, key string, ttl string) error {
	if key == "" {
		return errUsage
	}

	d := 15 * time.Minute
	if ttl != "" {
		var err error
		if d, err = time.ParseDuration(ttl); err != nil {
			return fmt.Errorf("parsing ttl: %w", err)
		}
	}

	b, err := storage.New(log, cfg)
	if err != nil {
		return err
	}

	url, ok := b.PresignedGetURL(ctx, key, d)
	if !ok {
		return fmt.Errorf("could not presign %s", key)
	}

	fmt.Fprintln(out, url)
	return nil
}
