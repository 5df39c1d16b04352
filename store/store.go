// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/scheduling-poll/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNoChanges     = errors.New("no changes")
	ErrPollExists    = errors.New("issue already has a scheduling poll")
	ErrItemNotInPoll = errors.New("item does not belong to this poll")
	ErrUserExists    = errors.New("login has already been taken")
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists issues, users, polls, items and votes.
//
// Result sets are always drained and closed before the next statement:
// the SQLite pool holds a single connection.
type Store struct {
	db     *sql.DB
	values models.VoteValues
	now    func() time.Time
}

func New(db *sql.DB, values models.VoteValues) *Store {
	return &Store{
		db:     db,
		values: values,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// VoteValues returns the configured vote values
func (s *Store) VoteValues() models.VoteValues {
	return s.values
}

// inTx runs fn in a transaction, committing only if fn returns nil
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}
