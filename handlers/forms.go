// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/models"
)

var (
	// items[N][field], with the Rails list form items[N][_destroy][] too
	itemFieldRe = regexp.MustCompile(`^items\[(\d+)\]\[(id|text|position|_destroy)\](\[\])?$`)
	voteFieldRe = regexp.MustCompile(`^scheduling_vote\[(\d+)\]$`)
)

// parsePollRequest reads {issue_id, items} from a JSON or XML body, or from
// form fields issue_id and items[N][id|text|position|_destroy].
func parsePollRequest(r *http.Request) (models.PollRequest, error) {
	var req models.PollRequest
	switch {
	case middleware.IsJSONBody(r):
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return req, fmt.Errorf("invalid JSON: %w", err)
		}
		return req, nil
	case middleware.IsXMLBody(r):
		if err := middleware.ParseXMLBody(r, &req); err != nil {
			return req, fmt.Errorf("invalid XML: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form: %w", err)
	}

	if raw := strings.TrimSpace(r.PostForm.Get("issue_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid issue_id %q", raw)
		}
		req.IssueID = id
	}

	rows := make(map[int]*models.ItemDirective)
	for key, values := range r.PostForm {
		m := itemFieldRe.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		if m[3] != "" && m[2] != "_destroy" {
			continue
		}
		index, _ := strconv.Atoi(m[1])
		d, ok := rows[index]
		if !ok {
			d = &models.ItemDirective{}
			rows[index] = d
		}

		value := strings.TrimSpace(values[len(values)-1])
		switch m[2] {
		case "id":
			if value == "" {
				continue
			}
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return req, fmt.Errorf("invalid %s %q", key, value)
			}
			d.ID = &id
		case "text":
			text := values[len(values)-1]
			d.Text = &text
		case "position":
			if value == "" {
				continue
			}
			pos, err := strconv.Atoi(value)
			if err != nil {
				return req, fmt.Errorf("invalid %s %q", key, value)
			}
			d.Position = &pos
		case "_destroy":
			// Both key spellings may be sent for one row
			d.Destroy = d.Destroy || models.ParseDestroyFlag(values)
		}
	}

	indexes := make([]int, 0, len(rows))
	for i := range rows {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		req.Items = append(req.Items, *rows[i])
	}
	return req, nil
}

// parseVoteRequest reads {votes: {"<item_id>": value}, comment} from a JSON
// body, <votes><vote item_id="N">value</vote></votes> from an XML body, or
// form fields scheduling_vote[<item_id>] and vote_comment. Values may be
// numbers or numeric strings. Entries whose key or value is not an integer
// are dropped, which leaves those items untouched.
func parseVoteRequest(r *http.Request) (map[int64]int, string, error) {
	votes := make(map[int64]int)
	add := func(key string, value models.VoteInput) {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || !value.Valid {
			return
		}
		votes[id] = value.Value
	}

	switch {
	case middleware.IsJSONBody(r):
		var req models.VoteRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return nil, "", fmt.Errorf("invalid JSON: %w", err)
		}
		for key, value := range req.Votes {
			add(key, value)
		}
		return votes, req.Comment, nil
	case middleware.IsXMLBody(r):
		var req models.VoteRequest
		if err := middleware.ParseXMLBody(r, &req); err != nil {
			return nil, "", fmt.Errorf("invalid XML: %w", err)
		}
		for _, e := range req.Entries {
			add(e.ItemID, e.Value)
		}
		return votes, req.Comment, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, "", fmt.Errorf("invalid form: %w", err)
	}
	for key, values := range r.PostForm {
		m := voteFieldRe.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		var value models.VoteInput
		value.UnmarshalText([]byte(values[len(values)-1]))
		add(m[1], value)
	}
	return votes, r.PostForm.Get("vote_comment"), nil
}
