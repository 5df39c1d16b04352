// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/cliparse"
	"github.com/danielhkuo/scheduling-poll/db"
	"github.com/danielhkuo/scheduling-poll/models"
)

const TestAPIKeySalt = "test-api-salt"

// BrowserAccept is the Accept header Chrome sends for page loads
const BrowserAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"

// Fixture ids
const (
	AdminID   int64 = 1
	JSmithID  int64 = 2
	DLopperID int64 = 3

	IssueWithPoll1 int64 = 1
	IssueWithPoll2 int64 = 2
	IssueNoPoll    int64 = 3

	Poll1 int64 = 1
	Poll2 int64 = 2

	NotExist int64 = 9999
)

// APIKey returns the fixture API key of a user
func APIKey(userID int64) string {
	return fmt.Sprintf("api-key-user-%d", userID)
}

// SetupTestDB creates a fresh sqlite database with the full schema and
// fixtures:
//
//	issue 1 ─ poll 1 ─ items 1, 2, 3 (votes on item 1: admin=3, jsmith=2)
//	issue 2 ─ poll 2 ─ items 4, 5, 6 (no votes)
//	issue 3   no poll
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(conn, db.TypeSQLite), "Failed to create schema")

	LoadFixtures(t, conn)
	return conn
}

// LoadFixtures inserts the standard users, issues, polls, items and votes
func LoadFixtures(t *testing.T, conn *sql.DB) {
	t.Helper()

	now := time.Now().UTC()
	users := []struct {
		id                         int64
		login, firstname, lastname string
	}{
		{AdminID, "admin", "Redmine", "Admin"},
		{JSmithID, "jsmith", "John", "Smith"},
		{DLopperID, "dlopper", "Dave", "Lopper"},
	}
	for _, u := range users {
		_, err := conn.Exec(`
			INSERT INTO users (id, login, firstname, lastname, api_key_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.id, u.login, u.firstname, u.lastname, auth.HashAPIKey(APIKey(u.id), TestAPIKeySalt), now)
		require.NoError(t, err, "Failed to create test user")
	}

	issues := []struct {
		id      int64
		subject string
	}{
		{IssueWithPoll1, "Cannot print recipes"},
		{IssueWithPoll2, "Add ingredients categories"},
		{IssueNoPoll, "Error 281 when updating a recipe"},
	}
	for _, is := range issues {
		_, err := conn.Exec(`
			INSERT INTO issue (id, subject, project, created_at)
			VALUES ($1, $2, 'eCookbook', $3)
		`, is.id, is.subject, now)
		require.NoError(t, err, "Failed to create test issue")
	}

	for _, p := range []struct{ id, issue int64 }{{Poll1, IssueWithPoll1}, {Poll2, IssueWithPoll2}} {
		_, err := conn.Exec(`
			INSERT INTO scheduling_poll (id, issue_id, created_at, updated_at)
			VALUES ($1, $2, $3, $3)
		`, p.id, p.issue, now)
		require.NoError(t, err, "Failed to create test poll")
	}

	items := []struct {
		id, poll int64
		text     string
		position int
	}{
		{1, Poll1, "2025-04-01 10:00", 1},
		{2, Poll1, "2025-04-02 10:00", 2},
		{3, Poll1, "2025-04-03 10:00", 3},
		{4, Poll2, "Monday", 1},
		{5, Poll2, "Tuesday", 2},
		{6, Poll2, "Wednesday", 3},
	}
	for _, it := range items {
		_, err := conn.Exec(`
			INSERT INTO scheduling_poll_item (id, scheduling_poll_id, text, position, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, it.id, it.poll, it.text, it.position, now)
		require.NoError(t, err, "Failed to create test item")
	}

	votes := []struct {
		item, user int64
		value      int
	}{
		{1, AdminID, 3},
		{1, JSmithID, 2},
	}
	for _, v := range votes {
		_, err := conn.Exec(`
			INSERT INTO scheduling_vote (scheduling_poll_item_id, user_id, value, comment, created_at, updated_at)
			VALUES ($1, $2, $3, '', $4, $4)
		`, v.item, v.user, v.value, now)
		require.NoError(t, err, "Failed to create test vote")
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.TypeSQLite,
		APIKeySalt:   TestAPIKeySalt,
		VoteValues:   models.VoteValues{1: "No", 2: "Maybe", 3: "Yes"},
	}
}

// ItemExists reports whether an item row is present
func ItemExists(t *testing.T, conn *sql.DB, itemID int64) bool {
	t.Helper()

	var exists bool
	err := conn.QueryRow(`SELECT EXISTS(SELECT 1 FROM scheduling_poll_item WHERE id = $1)`, itemID).Scan(&exists)
	require.NoError(t, err)
	return exists
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeXMLRequest creates an HTTP test request with a raw XML body
func MakeXMLRequest(method, path, body string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/xml")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AsUser returns the headers that authenticate a fixture user
func AsUser(userID int64) map[string]string {
	return map[string]string{auth.APIKeyHeader: APIKey(userID)}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "unexpected status. Body: %s", w.Body.String())
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "Failed to decode JSON response")
}
