// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielhkuo/scheduling-poll/models"
)

var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// Places an API key can be presented in, in lookup order
const (
	APIKeyHeader = "X-API-Key"
	APIKeyParam  = "key"
	APIKeyCookie = "api_key"
)

type contextKey struct{}

// GenerateAPIKey creates a random secure key for a user
func GenerateAPIKey() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashAPIKey returns the value stored for an API key.
// Only the hash is persisted, so a leaked database does not leak keys.
func HashAPIKey(apiKey, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(apiKey))
	return hex.EncodeToString(h.Sum(nil))
}

// APIKeyFromRequest extracts the API key from the header, the "key" query
// parameter, or the api_key cookie.
func APIKeyFromRequest(r *http.Request) (string, error) {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key, nil
	}
	if key := r.URL.Query().Get(APIKeyParam); key != "" {
		return key, nil
	}
	if c, err := r.Cookie(APIKeyCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrMissingAPIKey
}

// WithUser stores the acting user in the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the acting user, or nil for anonymous requests
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}
