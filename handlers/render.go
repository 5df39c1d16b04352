// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/models"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/views"
)

// responder carries what every handler needs to answer in HTML or API form
type responder struct {
	views  *views.Renderer
	logger *zap.Logger
}

// page renders an HTML page, falling back to plain text if the template fails
func (rs responder) page(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := rs.views.Render(w, status, name, data); err != nil {
		rs.log(r).Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// errorPage writes an error in the request's format
func (rs responder) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	if middleware.IsAPI(r) {
		middleware.ErrorResponse(w, r, status, message)
		return
	}
	rs.page(w, r, status, views.PageError, views.ErrorPage{
		Common:  views.Common{Title: http.StatusText(status), User: auth.UserFromContext(r.Context())},
		Status:  status,
		Message: message,
	})
}

// fail maps store errors onto statuses. Anything unexpected is logged and
// reported as 500 with a generic message.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		rs.errorPage(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNoChanges),
		errors.Is(err, store.ErrPollExists),
		errors.Is(err, store.ErrItemNotInPoll),
		errors.Is(err, store.ErrUserExists):
		rs.errorPage(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		rs.log(r).Error("failed to "+what, zap.Error(err))
		rs.errorPage(w, r, http.StatusInternalServerError, "Failed to "+what)
	}
}

func (rs responder) log(r *http.Request) *zap.Logger {
	return rs.logger.With(zap.String("request_id", middleware.RequestID(r.Context())))
}

// common builds the shared page fields, consuming any pending flash
func common(w http.ResponseWriter, r *http.Request, title string) views.Common {
	kind, message := middleware.PopFlash(w, r)
	return views.Common{
		Title: title,
		Flash: views.Flash{Kind: kind, Message: message},
		User:  auth.UserFromContext(r.Context()),
	}
}

// redirect answers a browser with 303 See Other, optionally with a notice
func redirect(w http.ResponseWriter, r *http.Request, url, notice string) {
	if notice != "" {
		middleware.SetFlash(w, "notice", notice)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// htmlOnly rejects API requests for pages that only exist as HTML
func (rs responder) htmlOnly(w http.ResponseWriter, r *http.Request) bool {
	if middleware.IsAPI(r) {
		middleware.ErrorResponse(w, r, http.StatusNotAcceptable, "This page is only available as HTML")
		return false
	}
	return true
}

// pathID reads a numeric route variable. A malformed id is reported as 404,
// the same as an id that does not exist.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, store.ErrNotFound)
	}
	return id, nil
}

func pollURL(id int64) string {
	return fmt.Sprintf("/polls/%d", id)
}

func pollTitle(poll *models.Poll) string {
	title := "Scheduling poll - " + views.IssueLabel(poll.Issue)
	if poll.Issue != nil && poll.Issue.Project != "" {
		title += " - " + poll.Issue.Project
	}
	return title
}
