// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/scheduling-poll/models"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r
}

func testPoll() *models.Poll {
	admin := &models.User{ID: 1, Name: "Redmine Admin"}
	created := time.Date(2025, 4, 1, 11, 0, 0, 0, time.UTC)
	return &models.Poll{
		ID:        1,
		Issue:     &models.Issue{ID: 1, Subject: "Cannot print recipes", Project: "eCookbook"},
		CreatedAt: created,
		UpdatedAt: created,
		Items: []models.Item{
			{ID: 1, Text: "2025-04-01", Position: 1, Votes: []models.Vote{
				{ID: 1, User: admin, Value: models.VoteValue{Value: 3, Text: "Yes"}, Comment: "<b>ok</b>", UpdatedAt: created},
			}},
			{ID: 2, Text: "2025-04-02", Position: 2, Votes: []models.Vote{}},
		},
	}
}

func TestRender_Show(t *testing.T) {
	r := newRenderer(t)
	poll := testPoll()
	values := models.VoteValues{1: "No", 2: "Maybe", 3: "Yes"}

	w := httptest.NewRecorder()
	err := r.Render(w, http.StatusOK, PageShow, ShowPage{
		Common: Common{
			Title: "Scheduling poll - Issue #1: Cannot print recipes - eCookbook",
			Flash: Flash{Kind: "notice", Message: "Successful vote."},
			User:  &models.User{ID: 1, Name: "Redmine Admin"},
		},
		Poll:   poll,
		Voters: poll.Voters(),
		Values: values,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Scheduling poll - Issue #1: Cannot print recipes - eCookbook</title>")
	assert.Contains(t, body, `<h3><a href="/issues/1">Issue #1: Cannot print recipes</a></h3>`)
	assert.Contains(t, body, `id="flash_notice">Successful vote.</div>`)
	assert.Contains(t, body, `name="scheduling_vote[1]"`)
	assert.Contains(t, body, `<option value="3" selected>Yes</option>`)
	assert.Contains(t, body, `<option value="0" selected>-</option>`, "item 2 has no vote yet")
	assert.Contains(t, body, "&lt;b&gt;ok&lt;/b&gt;", "comments are escaped")
	assert.Contains(t, body, "1 hour ago")
}

func TestRender_ShowAnonymous(t *testing.T) {
	r := newRenderer(t)
	poll := testPoll()

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusOK, PageShow, ShowPage{
		Poll:   poll,
		Voters: poll.Voters(),
		Values: models.DefaultVoteValues,
	}))

	body := w.Body.String()
	assert.NotContains(t, body, "scheduling_vote_form")
	assert.NotContains(t, body, "flash_")
}

func TestRender_Form(t *testing.T) {
	r := newRenderer(t)

	testCases := []struct {
		name       string
		items      []FormItem
		withValue  int
		totalInput int
	}{
		{"new", []FormItem{{Position: 1}, {Position: 2}, {Position: 3}}, 0, 3},
		{"edit", []FormItem{{ID: 1, Text: "a", Position: 1}, {ID: 2, Text: "b", Position: 2}, {ID: 3, Text: "c", Position: 3}, {Position: 4}}, 3, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, r.Render(w, http.StatusOK, PageForm, FormPage{
				Action:  "/polls",
				IssueID: 1,
				Items:   tc.items,
			}))

			body := w.Body.String()
			assert.Equal(t, tc.totalInput, strings.Count(body, `class="scheduling_poll_item_text"`))
			assert.Equal(t, tc.withValue, strings.Count(body, `size="40" value="`))
		})
	}
}

func TestRender_Issue(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusOK, PageIssue, IssuePage{
		Issue: &models.Issue{ID: 3, Subject: "Error 281", Journals: []models.Journal{
			{ID: 7, User: &models.User{ID: 2, Name: "John Smith"}, Notes: "**vote test msg**"},
		}},
	}))

	body := w.Body.String()
	assert.Contains(t, body, `href="/polls/new?issue=3"`)
	assert.Contains(t, body, "**vote test msg**")
	assert.Contains(t, body, "John Smith")
}

func TestRender_Error(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusNotFound, PageError, ErrorPage{Status: 404, Message: "scheduling poll 9999: not found"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "scheduling poll 9999: not found")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newRenderer(t)
	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "missing.html", nil))
}
