// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite (modernc.org/sqlite) is the default and is used by the tests;
PostgreSQL goes through github.com/lib/pq. SQLite DSNs get the
foreign_keys and busy_timeout pragmas appended.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: acting users and their hashed API keys
  - issue: tracker tickets
  - journal: comments logged on an issue
  - scheduling_poll: one poll per issue (issue_id is UNIQUE)
  - scheduling_poll_item: ordered poll options
  - scheduling_vote: one vote per (item, user)

# Relationships

	issue 1──0..1 scheduling_poll
	scheduling_poll 1──* scheduling_poll_item
	scheduling_poll_item 1──* scheduling_vote
	users 1──* scheduling_vote
	issue 1──* journal

Deleting a poll cascades to its items and their votes.

# Constraint Errors

	db.IsUniqueViolation(err)
	db.IsForeignKeyViolation(err)

both understand *pq.Error and *sqlite.Error.
*/
package db
