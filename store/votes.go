// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/scheduling-poll/db"
	"github.com/danielhkuo/scheduling-poll/models"
)

// VoteChange describes one item whose vote a submission changes.
// Old or New is models.NoVote when the vote is created or cleared.
type VoteChange struct {
	ItemID int64
	Old    int
	New    int
}

// SubmitVotes applies one user's votes on a poll.
//
// For every item of the poll, a submitted models.NoVote clears the user's
// vote, a configured value sets it, and anything else (or no entry) leaves
// the item alone. Entries for items outside the poll are ignored. When
// nothing would change the call fails with ErrNoChanges and writes nothing.
// Changed votes store the shared comment; a non-blank comment is also
// journaled on the poll's issue. All writes share one transaction.
func (s *Store) SubmitVotes(ctx context.Context, pollID, userID int64, votes map[int64]int, comment string) ([]VoteChange, error) {
	var changes []VoteChange

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var issueID int64
		err := tx.QueryRowContext(ctx, `
			SELECT issue_id FROM scheduling_poll WHERE id = $1
		`, pollID).Scan(&issueID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("scheduling poll", pollID)
		}
		if err != nil {
			return fmt.Errorf("failed to query poll: %w", err)
		}

		items, err := loadItems(ctx, tx, pollID)
		if err != nil {
			return err
		}

		current, err := userVotes(ctx, tx, pollID, userID)
		if err != nil {
			return err
		}

		for _, it := range items {
			submitted, ok := votes[it.ID]
			if !ok {
				continue
			}
			old, voted := current[it.ID]
			switch {
			case submitted == models.NoVote:
				if voted {
					changes = append(changes, VoteChange{ItemID: it.ID, Old: old, New: models.NoVote})
				}
			case s.values.Valid(submitted):
				if !voted || old != submitted {
					changes = append(changes, VoteChange{ItemID: it.ID, Old: old, New: submitted})
				}
			}
		}

		if len(changes) == 0 {
			return ErrNoChanges
		}

		now := s.now()
		for _, c := range changes {
			if c.New == models.NoVote {
				_, err := tx.ExecContext(ctx, `
					DELETE FROM scheduling_vote
					WHERE scheduling_poll_item_id = $1 AND user_id = $2
				`, c.ItemID, userID)
				if err != nil {
					return fmt.Errorf("failed to delete vote: %w", err)
				}
				continue
			}

			_, err := tx.ExecContext(ctx, `
				INSERT INTO scheduling_vote (scheduling_poll_item_id, user_id, value, comment, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $5)
				ON CONFLICT (scheduling_poll_item_id, user_id)
				DO UPDATE SET value = excluded.value, comment = excluded.comment, updated_at = excluded.updated_at
			`, c.ItemID, userID, c.New, comment, now)
			if err != nil {
				// The voter was removed while the request was in flight
				if db.IsForeignKeyViolation(err) {
					return notFound("user", userID)
				}
				return fmt.Errorf("failed to save vote: %w", err)
			}
		}

		if strings.TrimSpace(comment) != "" {
			if err := addJournal(ctx, tx, issueID, userID, comment, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return changes, nil
}

func userVotes(ctx context.Context, q queryer, pollID, userID int64) (map[int64]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.scheduling_poll_item_id, v.value
		FROM scheduling_vote v
		JOIN scheduling_poll_item i ON i.id = v.scheduling_poll_item_id
		WHERE i.scheduling_poll_id = $1 AND v.user_id = $2
	`, pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	current := make(map[int64]int)
	for rows.Next() {
		var itemID int64
		var value int
		if err := rows.Scan(&itemID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		current[itemID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return current, nil
}

// VoteByUser returns the user's vote on one item, or nil if there is none
func (s *Store) VoteByUser(ctx context.Context, itemID, userID int64) (*models.Vote, error) {
	var v models.Vote
	var u models.User
	var value int
	err := s.db.QueryRowContext(ctx, `
		SELECT v.id, v.scheduling_poll_item_id, v.value, v.comment, v.updated_at,
		       u.id, u.login, u.firstname, u.lastname
		FROM scheduling_vote v
		JOIN users u ON u.id = v.user_id
		WHERE v.scheduling_poll_item_id = $1 AND v.user_id = $2
	`, itemID, userID).Scan(&v.ID, &v.ItemID, &value, &v.Comment, &v.UpdatedAt,
		&u.ID, &u.Login, &u.Firstname, &u.Lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vote: %w", err)
	}

	u.Name = u.DisplayName()
	v.User = &u
	v.Value = s.values.Value(value)
	return &v, nil
}

// VoteValueByUser returns the user's vote value on one item
func (s *Store) VoteValueByUser(ctx context.Context, itemID, userID int64) (int, bool, error) {
	v, err := s.VoteByUser(ctx, itemID, userID)
	if err != nil || v == nil {
		return models.NoVote, false, err
	}
	return v.Value.Value, true, nil
}
