// Package store implements the relational repositories the scheduler and
// handlers consume. Everything is plain database/sql against Postgres with
// pq.Array for text[] columns.
package store

import (
	"database/sql"
	"errors"
)

// Store bundles the repositories over one shared connection pool.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ErrInvalidTransition is returned when a status update targets a post that is
// not in the scheduled state (the only state the external publisher may leave).
var ErrInvalidTransition = errors.New("post is not in a schedulable state")
