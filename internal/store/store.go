// Package store is the typed access layer over the document
// collections. Services receive a *Client (or a narrow interface
// satisfied by it) instead of touching the pool; pgx errors are
// converted to the shared taxonomy at this boundary.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound reports a point lookup that matched no row. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

type Client struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
