package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/scheduling-poll/models"
)

const voteValueEnvPrefix = "SCHEDULING_VOTE_VALUE_"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	APIKeySalt   string
	VoteValues   models.VoteValues
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, voteValues string

	fs := flag.NewFlagSet("scheduling-poll", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.APIKeySalt, "api-salt", "", "API key salt (prefer env)")

	fs.StringVar(&voteValues, "vote-values", "", "Vote values, e.g. 1=×,2=△,3=○")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment wins over the dotenv file
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.APIKeySalt == "" {
		cfg.APIKeySalt = os.Getenv("API_KEY_SALT")
	}
	if cfg.APIKeySalt == "" {
		return Config{}, errors.New("API_KEY_SALT required")
	}

	vv, err := parseVoteValues(voteValues)
	if err != nil {
		return Config{}, err
	}
	cfg.VoteValues = vv

	return cfg, nil
}

// parseVoteValues starts from the flag, then SCHEDULING_VOTE_VALUES, then
// the defaults, and applies SCHEDULING_VOTE_VALUE_<N> overrides on top.
func parseVoteValues(raw string) (models.VoteValues, error) {
	if raw == "" {
		raw = os.Getenv("SCHEDULING_VOTE_VALUES")
	}

	vv := models.VoteValues{}
	if raw == "" {
		for v, text := range models.DefaultVoteValues {
			vv[v] = text
		}
	} else {
		parsed, err := models.ParseVoteValues(raw)
		if err != nil {
			return nil, err
		}
		vv = parsed
	}

	for _, kv := range os.Environ() {
		key, label, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, voteValueEnvPrefix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimPrefix(key, voteValueEnvPrefix))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if v == models.NoVote {
			return nil, fmt.Errorf("%s: value %d is reserved", key, models.NoVote)
		}
		vv[v] = label
	}

	return vv, nil
}
