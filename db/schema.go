// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database of the given type.
// SQLite connections always enforce foreign keys, which the cascading
// deletes of polls rely on.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypeSQLite:
		conn, err := sql.Open("sqlite", sqliteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// Single writer; avoids SQLITE_BUSY between pooled connections
		conn.SetMaxOpenConns(1)
		return conn, nil
	case TypePostgres:
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "foreign_keys") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	idColumn := "BIGSERIAL PRIMARY KEY"
	if dbType == TypeSQLite {
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{id}}", idColumn))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id {{id}},
    login TEXT NOT NULL UNIQUE,
    firstname TEXT NOT NULL DEFAULT '',
    lastname TEXT NOT NULL DEFAULT '',
    api_key_hash TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Issues
CREATE TABLE IF NOT EXISTS issue (
    id {{id}},
    subject TEXT NOT NULL,
    project TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Journals (issue history and comments)
CREATE TABLE IF NOT EXISTS journal (
    id {{id}},
    issue_id BIGINT NOT NULL REFERENCES issue(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id),
    notes TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_journal_issue_id ON journal(issue_id);

-- Scheduling polls, one per issue
CREATE TABLE IF NOT EXISTS scheduling_poll (
    id {{id}},
    issue_id BIGINT NOT NULL UNIQUE REFERENCES issue(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Poll items
CREATE TABLE IF NOT EXISTS scheduling_poll_item (
    id {{id}},
    scheduling_poll_id BIGINT NOT NULL REFERENCES scheduling_poll(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scheduling_poll_item_poll_id ON scheduling_poll_item(scheduling_poll_id);

-- Votes, at most one per (item, user)
CREATE TABLE IF NOT EXISTS scheduling_vote (
    id {{id}},
    scheduling_poll_item_id BIGINT NOT NULL REFERENCES scheduling_poll_item(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    value INTEGER NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (scheduling_poll_item_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_scheduling_vote_user_id ON scheduling_vote(user_id);
`
