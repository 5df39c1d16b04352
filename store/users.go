// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/scheduling-poll/db"
	"github.com/danielhkuo/scheduling-poll/models"
)

// CreateUser inserts a user identified by the hash of its API key
func (s *Store) CreateUser(ctx context.Context, req models.CreateUserRequest, apiKeyHash string) (*models.User, error) {
	user := &models.User{
		Login:     req.Login,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		CreatedAt: s.now(),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (login, firstname, lastname, api_key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Login, user.Firstname, user.Lastname, apiKeyHash, user.CreatedAt).Scan(&user.ID)
	if db.IsUniqueViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	user.Name = user.DisplayName()
	return user, nil
}

// FindUserByAPIKeyHash resolves the acting user of a request
func (s *Store) FindUserByAPIKeyHash(ctx context.Context, apiKeyHash string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, firstname, lastname, created_at
		FROM users
		WHERE api_key_hash = $1
	`, apiKeyHash).Scan(&user.ID, &user.Login, &user.Firstname, &user.Lastname, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Name = user.DisplayName()
	return &user, nil
}

// CreateIssue inserts a tracker issue
func (s *Store) CreateIssue(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	issue := &models.Issue{
		Subject:   req.Subject,
		Project:   req.Project,
		CreatedAt: s.now(),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO issue (subject, project, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, issue.Subject, issue.Project, issue.CreatedAt).Scan(&issue.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert issue: %w", err)
	}

	return issue, nil
}

// FindIssue returns the issue summary without journals
func (s *Store) FindIssue(ctx context.Context, id int64) (*models.Issue, error) {
	return findIssue(ctx, s.db, id)
}

func findIssue(ctx context.Context, q queryer, id int64) (*models.Issue, error) {
	var issue models.Issue
	err := q.QueryRowContext(ctx, `
		SELECT id, subject, project, created_at FROM issue WHERE id = $1
	`, id).Scan(&issue.ID, &issue.Subject, &issue.Project, &issue.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("issue", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query issue: %w", err)
	}
	return &issue, nil
}

// IssueWithJournals returns the issue and its journals, oldest first
func (s *Store) IssueWithJournals(ctx context.Context, id int64) (*models.Issue, error) {
	issue, err := s.FindIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT j.id, j.notes, j.created_at, u.id, u.login, u.firstname, u.lastname
		FROM journal j
		JOIN users u ON u.id = j.user_id
		WHERE j.issue_id = $1
		ORDER BY j.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var j models.Journal
		var u models.User
		if err := rows.Scan(&j.ID, &j.Notes, &j.CreatedAt, &u.ID, &u.Login, &u.Firstname, &u.Lastname); err != nil {
			return nil, fmt.Errorf("failed to scan journal: %w", err)
		}
		u.Name = u.DisplayName()
		j.User = &u
		issue.Journals = append(issue.Journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journals: %w", err)
	}

	return issue, nil
}

func addJournal(ctx context.Context, q queryer, issueID, userID int64, notes string, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO journal (issue_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4)
	`, issueID, userID, notes, at)
	if err != nil {
		return fmt.Errorf("failed to insert journal: %w", err)
	}
	return nil
}
