// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/models"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/testutil"
	"github.com/danielhkuo/scheduling-poll/views"
)

type testEnv struct {
	db     *sql.DB
	store  *store.Store
	polls  *PollHandler
	voting *VotingHandler
	issues *IssueHandler
	users  *UserHandler
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	st := store.New(conn, cfg.VoteValues)
	renderer, err := views.New()
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)

	return &testEnv{
		db:     conn,
		store:  st,
		polls:  NewPollHandler(st, renderer, logger),
		voting: NewVotingHandler(st, renderer, logger),
		issues: NewIssueHandler(st, renderer, logger),
		users:  NewUserHandler(st, cfg.APIKeySalt, logger),
	}
}

// serve runs a handler with route variables and, when userID is non-zero,
// an acting user in the context
func serve(h http.HandlerFunc, req *http.Request, vars map[string]string, userID int64) *httptest.ResponseRecorder {
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	if userID != 0 {
		req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: userID}))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func id(v int64) string { return fmt.Sprint(v) }

// flashOf returns the notice set by a response, if any
func flashOf(w *httptest.ResponseRecorder) string {
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	_, message := middleware.PopFlash(httptest.NewRecorder(), req)
	return message
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	testutil.AssertStatus(t, w, http.StatusSeeOther)
	assert.Equal(t, location, w.Header().Get("Location"))
}

func itemTexts(t *testing.T, st *store.Store, pollID int64) []string {
	t.Helper()
	poll, err := st.LoadPoll(context.Background(), pollID)
	require.NoError(t, err)
	texts := []string{}
	for _, it := range poll.Items {
		texts = append(texts, it.Text)
	}
	return texts
}

func deletePoll(t *testing.T, st *store.Store, pollID int64) {
	t.Helper()
	require.NoError(t, st.DeletePoll(context.Background(), pollID))
}

func TestNew(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.New, httptest.NewRequest("GET", "/polls/new?issue="+id(testutil.NotExist), nil), nil, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.New, httptest.NewRequest("GET", "/polls/new?issue=abc", nil), nil, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.New, httptest.NewRequest("GET", "/polls/new?issue=1", nil), nil, testutil.JSmithID)
	assertRedirect(t, w, "/polls/1")

	deletePoll(t, env.store, testutil.Poll1)
	w = serve(env.polls.New, httptest.NewRequest("GET", "/polls/new?issue=1", nil), nil, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="scheduling_poll_item_text"`), "three blank rows")
	assert.Equal(t, 0, strings.Count(body, `size="40" value=`), "no stored items")
}

func TestNew_APIFormats(t *testing.T) {
	env := setup(t)

	for _, format := range []string{"json", "xml"} {
		t.Run(format, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/polls/new?issue=3&format="+format, nil)
			w := serve(env.polls.New, req, nil, testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusNotAcceptable)
		})
	}
}

func createForm(issueID int64, texts ...string) url.Values {
	form := url.Values{"issue_id": {id(issueID)}}
	for i, text := range texts {
		form.Set(fmt.Sprintf("items[%d][text]", i), text)
		form.Set(fmt.Sprintf("items[%d][position]", i), fmt.Sprint(i+1))
	}
	return form
}

func TestCreate(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Create, formRequest("POST", "/polls", createForm(testutil.NotExist)), nil, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Existing poll: redirect without a notice
	w = serve(env.polls.Create, formRequest("POST", "/polls", createForm(testutil.IssueWithPoll1)), nil, testutil.JSmithID)
	assertRedirect(t, w, "/polls/1")
	assert.Empty(t, flashOf(w))

	deletePoll(t, env.store, testutil.Poll1)
	w = serve(env.polls.Create, formRequest("POST", "/polls", createForm(testutil.IssueWithPoll1, "text1", "text2", "")), nil, testutil.JSmithID)

	pollID, err := env.store.PollIDByIssue(context.Background(), testutil.IssueWithPoll1)
	require.NoError(t, err)
	assertRedirect(t, w, fmt.Sprintf("/polls/%d", pollID))
	assert.Equal(t, "Successful creation.", flashOf(w))

	poll, err := env.store.LoadPoll(context.Background(), pollID)
	require.NoError(t, err)
	require.Len(t, poll.Items, 2)
	assert.Equal(t, "text1", poll.Items[0].Text)
	assert.Equal(t, 1, poll.Items[0].Position)
	assert.Equal(t, "text2", poll.Items[1].Text)
	assert.Equal(t, 2, poll.Items[1].Position)
}

func TestCreate_API(t *testing.T) {
	testCases := []struct {
		format      string
		contentType string
	}{
		{"json", "application/json"},
		{"xml", "application/xml"},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			env := setup(t)
			vars := map[string]string{"format": "." + tc.format}
			body := func(issueID int64, texts ...string) models.PollRequest {
				req := models.PollRequest{IssueID: issueID, Items: []models.ItemDirective{}}
				for i := range texts {
					position := i + 1
					req.Items = append(req.Items, models.ItemDirective{Text: &texts[i], Position: &position})
				}
				return req
			}

			w := serve(env.polls.Create, testutil.MakeRequest("POST", "/polls", body(testutil.NotExist), nil), vars, testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusNotFound)

			w = serve(env.polls.Create, testutil.MakeRequest("POST", "/polls", body(testutil.IssueWithPoll1), nil), vars, testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusOK)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			if tc.format == "json" {
				var resp struct {
					Status string `json:"status"`
					Poll   struct {
						ID int64 `json:"id"`
					} `json:"poll"`
				}
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, models.StatusExist, resp.Status)
				assert.Equal(t, testutil.Poll1, resp.Poll.ID)
			} else {
				assert.Contains(t, w.Body.String(), "<status>exist</status>")
			}

			deletePoll(t, env.store, testutil.Poll1)
			w = serve(env.polls.Create, testutil.MakeRequest("POST", "/polls", body(testutil.IssueWithPoll1, "text1", "text2", ""), nil), vars, testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusCreated)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))

			pollID, err := env.store.PollIDByIssue(context.Background(), testutil.IssueWithPoll1)
			require.NoError(t, err)
			assert.Equal(t, []string{"text1", "text2"}, itemTexts(t, env.store, pollID))

			if tc.format == "json" {
				var resp struct {
					Status string `json:"status"`
					Poll   struct {
						ID int64 `json:"id"`
					} `json:"poll"`
				}
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, models.StatusOK, resp.Status)
				assert.Equal(t, pollID, resp.Poll.ID)
			} else {
				assert.Contains(t, w.Body.String(), "<status>ok</status>")
			}
		})
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	env := setup(t)

	req := httptest.NewRequest("POST", "/polls", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := serve(env.polls.Create, req, map[string]string{"format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(env.polls.Create, formRequest("POST", "/polls", url.Values{"issue_id": {"abc"}}), nil, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestCreate_XMLBody(t *testing.T) {
	env := setup(t)
	vars := map[string]string{"format": ".xml"}

	body := `<scheduling_poll>
		<issue_id>3</issue_id>
		<items>
			<item><text>Friday</text><position>1</position></item>
			<item><text>Saturday</text></item>
			<item><text> </text></item>
		</items>
	</scheduling_poll>`
	w := serve(env.polls.Create, testutil.MakeXMLRequest("POST", "/polls.xml", body, nil), vars, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusCreated)
	assert.Contains(t, w.Body.String(), "<status>ok</status>")

	pollID, err := env.store.PollIDByIssue(context.Background(), testutil.IssueNoPoll)
	require.NoError(t, err)
	poll, err := env.store.LoadPoll(context.Background(), pollID)
	require.NoError(t, err)
	require.Len(t, poll.Items, 2)
	assert.Equal(t, "Friday", poll.Items[0].Text)
	assert.Equal(t, "Saturday", poll.Items[1].Text)
	assert.Equal(t, 2, poll.Items[1].Position, "a new item without position goes last")

	w = serve(env.polls.Create, testutil.MakeXMLRequest("POST", "/polls.xml", "<scheduling_poll>", nil), vars, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestEdit(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Edit, httptest.NewRequest("GET", "/polls/9999/edit", nil), map[string]string{"id": id(testutil.NotExist)}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.Edit, httptest.NewRequest("GET", "/polls/1/edit", nil), map[string]string{"id": "1"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `size="40" value=`), "three stored items")
	assert.Equal(t, 4, strings.Count(body, `class="scheduling_poll_item_text"`), "plus one blank row")
	assert.Contains(t, body, `<input type="number" name="items[3][position]" value="4">`)

	w = serve(env.polls.Edit, httptest.NewRequest("GET", "/polls/1/edit", nil), map[string]string{"id": "1", "format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotAcceptable)
}

func TestUpdate(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Update, formRequest("PATCH", "/polls/9999", url.Values{"issue_id": {id(testutil.NotExist)}}),
		map[string]string{"id": id(testutil.NotExist)}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	form := url.Values{
		"issue_id":           {"1"},
		"items[0][id]":       {"1"},
		"items[0][position]": {"1"},
		"items[0][_destroy]": {"0"},
		"items[0][text]":     {"2025-04-01 10:00"},
		"items[1][id]":       {"2"},
		"items[1][position]": {"2"},
		"items[1][_destroy]": {"1"},
		"items[2][id]":       {"3"},
		"items[2][position]": {"3"},
		"items[2][_destroy]": {"0"},
		"items[2][text]":     {"2025-04-03 10:00"},
		"items[3][text]":     {"text"},
		"items[3][position]": {"4"},
		"items[4][text]":     {""},
		"items[4][position]": {"5"},
	}
	w = serve(env.polls.Update, formRequest("PATCH", "/polls/1", form), map[string]string{"id": "1"}, testutil.JSmithID)
	assertRedirect(t, w, "/polls/1")
	assert.Equal(t, "Successful update.", flashOf(w))

	assert.False(t, testutil.ItemExists(t, env.db, 2))
	poll, err := env.store.LoadPoll(context.Background(), testutil.Poll1)
	require.NoError(t, err)
	require.Len(t, poll.Items, 3)
	assert.Equal(t, int64(1), poll.Items[0].ID)
	assert.Equal(t, int64(3), poll.Items[1].ID)
	assert.Equal(t, "text", poll.Items[2].Text)
}

func TestUpdate_FailureKeepsItems(t *testing.T) {
	env := setup(t)

	// Moving poll 1 onto issue 2 collides with poll 2, so the destroy of
	// item 1 must not be committed either.
	form := url.Values{
		"issue_id":           {id(testutil.IssueWithPoll2)},
		"items[0][id]":       {"1"},
		"items[0][_destroy]": {"0", "1"},
	}
	w := serve(env.polls.Update, formRequest("POST", "/polls/1", form), map[string]string{"id": "1"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	assert.Contains(t, w.Body.String(), "errorExplanation")
	assert.True(t, testutil.ItemExists(t, env.db, 1))

	// Same through the API
	body := map[string]interface{}{
		"issue_id": testutil.IssueWithPoll2,
		"items":    []map[string]interface{}{{"id": 1, "_destroy": []interface{}{0, 1}}},
	}
	w = serve(env.polls.Update, testutil.MakeRequest("PATCH", "/polls/1.json", body, nil), map[string]string{"id": "1", "format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	assert.True(t, testutil.ItemExists(t, env.db, 1))
}

func TestUpdate_ForeignItem(t *testing.T) {
	env := setup(t)

	body := map[string]interface{}{
		"issue_id": testutil.IssueWithPoll1,
		"items": []map[string]interface{}{
			{"id": 1, "_destroy": true},
			{"id": 4, "position": 1},
		},
	}
	w := serve(env.polls.Update, testutil.MakeRequest("PATCH", "/polls/1.json", body, nil), map[string]string{"id": "1", "format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	assert.True(t, testutil.ItemExists(t, env.db, 1))
}

func TestUpdate_PartialDirectives(t *testing.T) {
	env := setup(t)

	// No positions sent: every item keeps its place
	form := url.Values{
		"items[0][id]":         {"3"},
		"items[0][_destroy][]": {"0"},
		"items[1][id]":         {"2"},
		"items[1][_destroy][]": {"0", "1"},
	}
	w := serve(env.polls.Update, formRequest("POST", "/polls/1", form), map[string]string{"id": "1"}, testutil.JSmithID)
	assertRedirect(t, w, "/polls/1")

	assert.False(t, testutil.ItemExists(t, env.db, 2))
	assert.Equal(t, []string{"2025-04-01 10:00", "2025-04-03 10:00"}, itemTexts(t, env.store, testutil.Poll1))
}

func TestUpdate_XMLBody(t *testing.T) {
	env := setup(t)
	vars := map[string]string{"id": "1", "format": ".xml"}

	body := `<scheduling_poll>
		<items>
			<item><id>2</id><_destroy>0</_destroy><_destroy>1</_destroy></item>
			<item><id>3</id><text>moved</text><position>0</position></item>
		</items>
	</scheduling_poll>`
	w := serve(env.polls.Update, testutil.MakeXMLRequest("PATCH", "/polls/1.xml", body, nil), vars, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	assert.False(t, testutil.ItemExists(t, env.db, 2))
	assert.Equal(t, []string{"moved", "2025-04-01 10:00"}, itemTexts(t, env.store, testutil.Poll1))
}

func TestUpdate_API(t *testing.T) {
	for _, format := range []string{"json", "xml"} {
		t.Run(format, func(t *testing.T) {
			env := setup(t)
			vars := func(pollID int64) map[string]string {
				return map[string]string{"id": id(pollID), "format": "." + format}
			}

			w := serve(env.polls.Update, testutil.MakeRequest("PATCH", "/polls/9999", map[string]interface{}{"issue_id": testutil.NotExist}, nil),
				vars(testutil.NotExist), testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusNotFound)

			body := map[string]interface{}{
				"issue_id": testutil.IssueWithPoll1,
				"items": []map[string]interface{}{
					{"id": 1, "position": 1, "_destroy": 0},
					{"id": 2, "position": 2, "_destroy": 1},
					{"id": 3, "position": 3, "_destroy": 0},
					{"text": "text", "position": 4},
					{"text": "", "position": 5},
				},
			}
			w = serve(env.polls.Update, testutil.MakeRequest("PATCH", "/polls/1", body, nil), vars(testutil.Poll1), testutil.JSmithID)
			testutil.AssertStatus(t, w, http.StatusNoContent)
			assert.Empty(t, w.Body.String())

			assert.Equal(t, []string{"2025-04-01 10:00", "2025-04-03 10:00", "text"}, itemTexts(t, env.store, testutil.Poll1))
		})
	}
}

func TestShow(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Show, httptest.NewRequest("GET", "/polls/1", nil), map[string]string{"id": "1"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	assert.Contains(t, body, "<title>Scheduling poll - Issue #1: Cannot print recipes - eCookbook</title>")
	assert.Contains(t, body, `<h3><a href="/issues/1">Issue #1: Cannot print recipes</a></h3>`)
	assert.Contains(t, body, `name="scheduling_vote[1]"`)

	w = serve(env.polls.Show, httptest.NewRequest("GET", "/polls/9999", nil), map[string]string{"id": id(testutil.NotExist)}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.Show, httptest.NewRequest("GET", "/polls/x", nil), map[string]string{"id": "x"}, 0)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

// assertPoll1JSON checks the show body against the fixture poll
func assertPoll1JSON(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	poll, ok := resp["scheduling_poll"].(map[string]interface{})
	require.True(t, ok, "scheduling_poll is an object")
	assert.EqualValues(t, 1, poll["id"])
	assert.EqualValues(t, 1, poll["issue"].(map[string]interface{})["id"])

	items, ok := poll["scheduling_poll_items"].([]interface{})
	require.True(t, ok, "scheduling_poll_items is an array")
	first := items[0].(map[string]interface{})
	assert.EqualValues(t, 1, first["id"])
	assert.Equal(t, "2025-04-01 10:00", first["text"])

	votes, ok := first["scheduling_votes"].([]interface{})
	require.True(t, ok, "scheduling_votes is an array")
	require.Len(t, votes, 2)

	v0 := votes[0].(map[string]interface{})
	assert.EqualValues(t, testutil.AdminID, v0["user"].(map[string]interface{})["id"])
	assert.Equal(t, map[string]interface{}{"value": float64(3), "text": "Yes"}, v0["value"])

	v1 := votes[1].(map[string]interface{})
	assert.EqualValues(t, testutil.JSmithID, v1["user"].(map[string]interface{})["id"])
	assert.Equal(t, map[string]interface{}{"value": float64(2), "text": "Maybe"}, v1["value"])
}

func TestShow_API(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Show, httptest.NewRequest("GET", "/polls/1.json", nil), map[string]string{"id": "1", "format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)
	assertPoll1JSON(t, w)

	w = serve(env.polls.Show, httptest.NewRequest("GET", "/polls/1.xml", nil), map[string]string{"id": "1", "format": ".xml"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<scheduling_poll><id>1</id>")

	for _, format := range []string{".json", ".xml"} {
		w = serve(env.polls.Show, httptest.NewRequest("GET", "/polls/9999"+format, nil), map[string]string{"id": id(testutil.NotExist), "format": format}, testutil.JSmithID)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestShowByIssue(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/1", nil), map[string]string{"issue_id": "1"}, testutil.JSmithID)
	assertRedirect(t, w, "/polls/1")

	w = serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/9999", nil), map[string]string{"issue_id": id(testutil.NotExist)}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/3", nil), map[string]string{"issue_id": id(testutil.IssueNoPoll)}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestShowByIssue_API(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/1.json", nil), map[string]string{"issue_id": "1", "format": ".json"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)
	assertPoll1JSON(t, w)

	w = serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/1.xml", nil), map[string]string{"issue_id": "1", "format": ".xml"}, testutil.JSmithID)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))

	for _, format := range []string{".json", ".xml"} {
		w = serve(env.polls.ShowByIssue, httptest.NewRequest("GET", "/polls/by_issue/9999"+format, nil), map[string]string{"issue_id": id(testutil.NotExist), "format": format}, testutil.JSmithID)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestDestroy(t *testing.T) {
	env := setup(t)

	w := serve(env.polls.Destroy, httptest.NewRequest("DELETE", "/polls/1.json", nil), map[string]string{"id": "1", "format": ".json"}, testutil.AdminID)
	testutil.AssertStatus(t, w, http.StatusNoContent)
	assert.Equal(t, 0, testutil.CountRows(t, env.db, "scheduling_vote"))
	assert.False(t, testutil.ItemExists(t, env.db, 1))

	w = serve(env.polls.Destroy, httptest.NewRequest("DELETE", "/polls/1.json", nil), map[string]string{"id": "1", "format": ".json"}, testutil.AdminID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.Destroy, httptest.NewRequest("DELETE", "/polls/2", nil), map[string]string{"id": "2"}, testutil.AdminID)
	assertRedirect(t, w, "/issues/2")
	assert.Equal(t, "Successful deletion.", flashOf(w))
	assert.Equal(t, 0, testutil.CountRows(t, env.db, "scheduling_poll"))
}
