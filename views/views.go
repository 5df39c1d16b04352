// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/scheduling-poll/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	PageShow  = "show.html"
	PageForm  = "form.html"
	PageIssue = "issue.html"
	PageError = "error.html"
)

// Flash is a one-shot notice carried across a redirect
type Flash struct {
	Kind    string
	Message string
}

// Common is embedded by every page
type Common struct {
	Title string
	Flash Flash
	User  *models.User
}

// ShowPage renders a poll with its vote table and, for a signed-in user,
// the voting form.
type ShowPage struct {
	Common
	Poll   *models.Poll
	Voters []*models.User
	Values models.VoteValues
	Error  string
}

// FormItem is one row of the new/edit form
type FormItem struct {
	ID       int64
	Text     string
	Position int
}

type FormPage struct {
	Common
	Editing bool
	Action  string
	IssueID int64
	Issue   *models.Issue
	Items   []FormItem
	Error   string
}

type IssuePage struct {
	Common
	Issue  *models.Issue
	PollID int64
}

type ErrorPage struct {
	Common
	Status  int
	Message string
}

// Renderer holds the parsed page templates
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// New parses the embedded templates. Each page is parsed together with the
// shared layout.
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		now:   time.Now,
	}

	for _, page := range []string{PageShow, PageForm, PageIssue, PageError} {
		t, err := template.New("layout.html").
			Funcs(r.funcs()).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"ago": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return humanize.RelTime(t, r.now(), "ago", "from now")
		},
		"issueLabel": IssueLabel,
		"voteValue": func(it models.Item, userID int64) int {
			v, _ := it.VoteValueByUser(userID)
			return v
		},
		"voteLabel": func(it models.Item, userID int64, vv models.VoteValues) string {
			v, ok := it.VoteValueByUser(userID)
			if !ok {
				return ""
			}
			return vv.Label(v)
		},
		"tally": func(it models.Item, value int) int {
			return it.Tally()[value]
		},
		"label": func(vv models.VoteValues, v int) string {
			return vv.Label(v)
		},
	}
}

// IssueLabel formats an issue the way page titles and links show it
func IssueLabel(issue *models.Issue) string {
	if issue == nil {
		return ""
	}
	return fmt.Sprintf("Issue #%d: %s", issue.ID, issue.Subject)
}

// Render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
