// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the scheduling poll server.

A scheduling poll belongs to exactly one issue of a small issue tracker. It
holds an ordered list of items (candidate dates or options), and every user
casts at most one vote per item, choosing from a configured set of values
such as × / △ / ○. Vote comments are logged on the issue's journal.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db API_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -api-salt secret

A .env file in the working directory is loaded first, if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - API_KEY_SALT (-api-salt): Secret for API key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SCHEDULING_VOTE_VALUES (-vote-values): e.g. "1=No,2=Maybe,3=Yes"
  - SCHEDULING_VOTE_VALUE_<N>: label override for value N
  - LOG_LEVEL, LOG_ENCODING: zap logger level and encoding

# Architecture

  - handlers: HTTP request handlers (polls, voting, issues, users)
  - router: gorilla/mux routes with .json / .xml suffixes
  - middleware: request logging, API key authentication, formats, CORS
  - store: transactional persistence of polls, items and votes
  - views: embedded HTML templates
  - models: domain, request and response types; vote values
  - auth: API key generation, hashing and request lookup
  - db: connection, dialect-aware schema, constraint errors
  - logging: zap logger construction
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
