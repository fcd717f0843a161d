package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection, applies the schema, and pings.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return &DB{Client: db}, err
	}
	if err := Migrate(db); err != nil {
		return &DB{Client: db}, err
	}
	return &DB{Client: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
