// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - APIKeySalt: Secret for API key hashing (required)
  - VoteValues: storable vote values and their labels

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-api-salt     API key salt
	-vote-values  Vote values, e.g. "1=×,2=△,3=○"
	-env-file     dotenv file loaded before reading the environment (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                   → -p
	DATABASE_URL           → -d
	DATABASE_TYPE          → -t
	API_KEY_SALT           → -api-salt
	SCHEDULING_VOTE_VALUES → -vote-values

SCHEDULING_VOTE_VALUE_<N> sets the label of value N on top of whichever list
was chosen. Value 0 is reserved for "not voted" and rejected.

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the dotenv file.
*/
package cliparse
