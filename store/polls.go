// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/scheduling-poll/db"
	"github.com/danielhkuo/scheduling-poll/models"
)

// PollIDByIssue returns the id of the poll attached to an issue
func (s *Store) PollIDByIssue(ctx context.Context, issueID int64) (int64, error) {
	return pollIDByIssue(ctx, s.db, issueID)
}

func pollIDByIssue(ctx context.Context, q queryer, issueID int64) (int64, error) {
	var pollID int64
	err := q.QueryRowContext(ctx, `
		SELECT id FROM scheduling_poll WHERE issue_id = $1
	`, issueID).Scan(&pollID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("scheduling poll for issue %d: %w", issueID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query poll: %w", err)
	}
	return pollID, nil
}

// LoadPoll returns the full poll tree: issue summary, sorted items, and
// each item's votes in the order they were first cast.
func (s *Store) LoadPoll(ctx context.Context, id int64) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, issue_id, created_at, updated_at
		FROM scheduling_poll
		WHERE id = $1
	`, id).Scan(&poll.ID, &poll.IssueID, &poll.CreatedAt, &poll.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("scheduling poll", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	poll.Issue, err = s.FindIssue(ctx, poll.IssueID)
	if err != nil {
		return nil, err
	}

	poll.Items, err = loadItems(ctx, s.db, poll.ID)
	if err != nil {
		return nil, err
	}

	votes, err := s.loadVotes(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	for i := range poll.Items {
		poll.Items[i].Votes = votes[poll.Items[i].ID]
		if poll.Items[i].Votes == nil {
			poll.Items[i].Votes = []models.Vote{}
		}
	}

	return &poll, nil
}

func loadItems(ctx context.Context, q queryer, pollID int64) ([]models.Item, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, scheduling_poll_id, text, position
		FROM scheduling_poll_item
		WHERE scheduling_poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.PollID, &it.Text, &it.Position); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

func (s *Store) loadVotes(ctx context.Context, pollID int64) (map[int64][]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.scheduling_poll_item_id, v.value, v.comment, v.updated_at,
		       u.id, u.login, u.firstname, u.lastname
		FROM scheduling_vote v
		JOIN scheduling_poll_item i ON i.id = v.scheduling_poll_item_id
		JOIN users u ON u.id = v.user_id
		WHERE i.scheduling_poll_id = $1
		ORDER BY v.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[int64][]models.Vote)
	for rows.Next() {
		var v models.Vote
		var u models.User
		var value int
		if err := rows.Scan(&v.ID, &v.ItemID, &value, &v.Comment, &v.UpdatedAt,
			&u.ID, &u.Login, &u.Firstname, &u.Lastname); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		u.Name = u.DisplayName()
		v.User = &u
		v.Value = s.values.Value(value)
		votes[v.ItemID] = append(votes[v.ItemID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return votes, nil
}

// CreatePoll attaches a new poll to an issue. Items with blank text are
// dropped. If the issue already has a poll, that poll is returned with
// created == false and nothing is written.
func (s *Store) CreatePoll(ctx context.Context, issueID int64, items []models.ItemDirective) (poll *models.Poll, created bool, err error) {
	if _, err := s.FindIssue(ctx, issueID); err != nil {
		return nil, false, err
	}

	if existing, err := s.PollIDByIssue(ctx, issueID); err == nil {
		poll, err := s.LoadPoll(ctx, existing)
		return poll, false, err
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	var pollID int64
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		err := tx.QueryRowContext(ctx, `
			INSERT INTO scheduling_poll (issue_id, created_at, updated_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`, issueID, now, now).Scan(&pollID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrPollExists
			}
			return fmt.Errorf("failed to insert poll: %w", err)
		}

		next := 1
		for _, d := range items {
			if d.Text == nil || isBlank(*d.Text) {
				continue
			}
			pos := d.PositionOr(next)
			if err := insertItem(ctx, tx, pollID, *d.Text, pos, now); err != nil {
				return err
			}
			next = max(next, pos+1)
		}
		return nil
	})

	// Lost a race with a concurrent create for the same issue
	if errors.Is(err, ErrPollExists) {
		existing, err := s.PollIDByIssue(ctx, issueID)
		if err != nil {
			return nil, false, err
		}
		poll, err := s.LoadPoll(ctx, existing)
		return poll, false, err
	}
	if err != nil {
		return nil, false, err
	}

	poll, err = s.LoadPoll(ctx, pollID)
	return poll, true, err
}

// UpdatePoll reconciles the poll's item set with the given directives.
//
// The poll row is updated first (issue_id, updated_at). Then each directive
// with an id moves, renames, or (when flagged) deletes that item, and each
// directive without an id and with non-blank text adds one. Omitted text or
// position keeps the stored value; a new item without a position goes after
// the last one. Everything runs
// in one transaction: any failure leaves the poll and its items untouched.
// An issueID of 0 keeps the current issue.
func (s *Store) UpdatePoll(ctx context.Context, pollID, issueID int64, items []models.ItemDirective) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var currentIssue int64
		err := tx.QueryRowContext(ctx, `
			SELECT issue_id FROM scheduling_poll WHERE id = $1
		`, pollID).Scan(&currentIssue)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("scheduling poll", pollID)
		}
		if err != nil {
			return fmt.Errorf("failed to query poll: %w", err)
		}

		if issueID == 0 {
			issueID = currentIssue
		}
		if issueID != currentIssue {
			if _, err := findIssue(ctx, tx, issueID); err != nil {
				return err
			}
		}

		now := s.now()
		_, err = tx.ExecContext(ctx, `
			UPDATE scheduling_poll SET issue_id = $1, updated_at = $2 WHERE id = $3
		`, issueID, now, pollID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrPollExists
			}
			return fmt.Errorf("failed to update poll: %w", err)
		}

		current, err := loadItems(ctx, tx, pollID)
		if err != nil {
			return err
		}
		existing := make(map[int64]models.Item, len(current))
		next := 1
		for _, it := range current {
			existing[it.ID] = it
			next = max(next, it.Position+1)
		}

		for _, d := range items {
			if d.ID == nil {
				if d.Text == nil || isBlank(*d.Text) {
					continue
				}
				pos := d.PositionOr(next)
				if err := insertItem(ctx, tx, pollID, *d.Text, pos, now); err != nil {
					return err
				}
				next = max(next, pos+1)
				continue
			}

			it, ok := existing[*d.ID]
			if !ok {
				return fmt.Errorf("item %d: %w", *d.ID, ErrItemNotInPoll)
			}

			if d.Destroy {
				if err := deleteItem(ctx, tx, it.ID); err != nil {
					return err
				}
				delete(existing, it.ID)
				continue
			}

			text := it.Text
			if d.Text != nil && !isBlank(*d.Text) {
				text = *d.Text
			}
			_, err := tx.ExecContext(ctx, `
				UPDATE scheduling_poll_item SET text = $1, position = $2 WHERE id = $3
			`, text, d.PositionOr(it.Position), it.ID)
			if err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}
		}

		return nil
	})
}

// DeletePoll removes the poll with its items and votes
func (s *Store) DeletePoll(ctx context.Context, pollID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM scheduling_vote WHERE scheduling_poll_item_id IN (
				SELECT id FROM scheduling_poll_item WHERE scheduling_poll_id = $1
			)
		`, pollID)
		if err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM scheduling_poll_item WHERE scheduling_poll_id = $1`, pollID)
		if err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM scheduling_poll WHERE id = $1`, pollID)
		if err != nil {
			return fmt.Errorf("failed to delete poll: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return notFound("scheduling poll", pollID)
		}
		return nil
	})
}

func insertItem(ctx context.Context, q queryer, pollID int64, text string, position int, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO scheduling_poll_item (scheduling_poll_id, text, position, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, text, position, at)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func deleteItem(ctx context.Context, q queryer, itemID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM scheduling_vote WHERE scheduling_poll_item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item votes: %w", err)
	}
	_, err = q.ExecContext(ctx, `DELETE FROM scheduling_poll_item WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
