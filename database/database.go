package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/irsalhamdi/e-commerce-books/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var (
	ErrDBNotFound        = errors.New("not found")
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
)

//go:embed migrations
var migrations embed.FS

func Open(cfg config.DB) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	// sqlite serializes writers; a single connection also keeps shared
	// in-memory databases alive and lock-free.
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	if cfg.Migrate {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer src.Close()

	var drv migratedb.Driver
	switch db.DriverName() {
	case DriverPostgres:
		drv, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case DriverSQLite:
		drv, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	// The migrate instance is not closed: closing it would close db.
	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), drv)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

func Transaction(db *sqlx.DB, f func(tx sqlx.ExtContext) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := f(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func GetContext(ctx context.Context, db sqlx.ExtContext, dest any, query string, args ...any) error {
	if err := sqlx.GetContext(ctx, db, dest, db.Rebind(query), args...); err != nil {
		return normalize(err)
	}
	return nil
}

func SelectContext(ctx context.Context, db sqlx.ExtContext, dest any, query string, args ...any) error {
	if err := sqlx.SelectContext(ctx, db, dest, db.Rebind(query), args...); err != nil {
		return normalize(err)
	}
	return nil
}

// InContext expands slice arguments of an IN clause before selecting.
func InContext(ctx context.Context, db sqlx.ExtContext, dest any, query string, args ...any) error {
	q, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("expanding IN query: %w", err)
	}
	return SelectContext(ctx, db, dest, q, expanded...)
}

// NamedExecContext runs a named statement and reports ErrDBNotFound when no
// row was affected.
func NamedExecContext(ctx context.Context, db sqlx.ExtContext, query string, arg any) error {
	res, err := sqlx.NamedExecContext(ctx, db, query, arg)
	if err != nil {
		return normalize(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrDBNotFound
	}

	return nil
}

// NamedInsertContext runs a named INSERT ... RETURNING <id> and returns the id.
func NamedInsertContext(ctx context.Context, db sqlx.ExtContext, query string, arg any) (int64, error) {
	q, args, err := db.BindNamed(query, arg)
	if err != nil {
		return 0, fmt.Errorf("binding named query: %w", err)
	}

	var id int64
	if err := db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, normalize(err)
	}

	return id, nil
}

func normalize(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDBNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDBDuplicatedEntry, pqErr.Constraint)
	}

	var liteErr sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite.ErrConstraintUnique, sqlite.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", ErrDBDuplicatedEntry, liteErr.Error())
		}
	}

	return err
}

// DuplicatedColumn reports whether a duplicated-entry error was raised by the
// unique constraint on column.
func DuplicatedColumn(err error, column string) bool {
	return errors.Is(err, ErrDBDuplicatedEntry) && strings.Contains(err.Error(), column)
}
