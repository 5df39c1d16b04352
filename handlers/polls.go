// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/models"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/views"
)

// Blank rows offered by the new form
const newFormRows = 3

type PollHandler struct {
	responder
	store *store.Store
}

func NewPollHandler(st *store.Store, renderer *views.Renderer, logger *zap.Logger) *PollHandler {
	return &PollHandler{
		responder: responder{views: renderer, logger: logger},
		store:     st,
	}
}

// New handles GET /polls/new?issue=<id>
func (h *PollHandler) New(w http.ResponseWriter, r *http.Request) {
	if !h.htmlOnly(w, r) {
		return
	}

	issueID, err := strconv.ParseInt(r.URL.Query().Get("issue"), 10, 64)
	if err != nil {
		h.errorPage(w, r, http.StatusNotFound, "Issue not found")
		return
	}

	issue, err := h.store.FindIssue(r.Context(), issueID)
	if err != nil {
		h.fail(w, r, err, "load issue")
		return
	}

	// One poll per issue: go to the existing one
	if pollID, err := h.store.PollIDByIssue(r.Context(), issueID); err == nil {
		redirect(w, r, pollURL(pollID), "")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, err, "load poll")
		return
	}

	items := make([]views.FormItem, newFormRows)
	for i := range items {
		items[i].Position = i + 1
	}

	h.page(w, r, http.StatusOK, views.PageForm, views.FormPage{
		Common:  common(w, r, "New scheduling poll - "+views.IssueLabel(issue)),
		Action:  "/polls",
		IssueID: issue.ID,
		Issue:   issue,
		Items:   items,
	})
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := parsePollRequest(r)
	if err != nil {
		h.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	poll, created, err := h.store.CreatePoll(r.Context(), req.IssueID, req.Items)
	if err != nil {
		h.fail(w, r, err, "create poll")
		return
	}

	status, code, notice := models.StatusExist, http.StatusOK, ""
	if created {
		status, code, notice = models.StatusOK, http.StatusCreated, "Successful creation."
		h.log(r).Info("poll created",
			zap.Int64("poll_id", poll.ID),
			zap.Int64("issue_id", req.IssueID),
			zap.Int("items", len(poll.Items)),
		)
	}

	if !middleware.IsAPI(r) {
		redirect(w, r, pollURL(poll.ID), notice)
		return
	}
	middleware.Respond(w, r, code, models.CreatePollResponse{
		Status: status,
		Poll:   poll,
	})
}

// Edit handles GET /polls/{id}/edit
func (h *PollHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !h.htmlOnly(w, r) {
		return
	}

	poll, err := h.loadPoll(r)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}

	h.renderEdit(w, r, http.StatusOK, poll, "")
}

func (h *PollHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, poll *models.Poll, message string) {
	items := make([]views.FormItem, 0, len(poll.Items)+1)
	next := 1
	for _, it := range poll.Items {
		items = append(items, views.FormItem{ID: it.ID, Text: it.Text, Position: it.Position})
		if it.Position >= next {
			next = it.Position + 1
		}
	}
	items = append(items, views.FormItem{Position: next})

	h.page(w, r, status, views.PageForm, views.FormPage{
		Common:  common(w, r, "Edit "+pollTitle(poll)),
		Editing: true,
		Action:  pollURL(poll.ID),
		IssueID: poll.IssueID,
		Issue:   poll.Issue,
		Items:   items,
		Error:   message,
	})
}

// Update handles PATCH /polls/{id} (POST from the HTML form)
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "id")
	if err != nil {
		h.errorPage(w, r, http.StatusNotFound, err.Error())
		return
	}

	req, err := parsePollRequest(r)
	if err != nil {
		h.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.store.UpdatePoll(r.Context(), pollID, req.IssueID, req.Items)
	if errors.Is(err, store.ErrPollExists) || errors.Is(err, store.ErrItemNotInPoll) {
		h.log(r).Info("poll update rejected", zap.Int64("poll_id", pollID), zap.Error(err))
		if !middleware.IsAPI(r) {
			if poll, loadErr := h.store.LoadPoll(r.Context(), pollID); loadErr == nil {
				h.renderEdit(w, r, http.StatusUnprocessableEntity, poll, err.Error())
				return
			}
		}
		h.errorPage(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		h.fail(w, r, err, "update poll")
		return
	}

	h.log(r).Info("poll updated", zap.Int64("poll_id", pollID), zap.Int("directives", len(req.Items)))

	if !middleware.IsAPI(r) {
		redirect(w, r, pollURL(pollID), "Successful update.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Show handles GET /polls/{id}
func (h *PollHandler) Show(w http.ResponseWriter, r *http.Request) {
	poll, err := h.loadPoll(r)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}

	if middleware.IsAPI(r) {
		middleware.Respond(w, r, http.StatusOK, models.PollEnvelope{Poll: poll})
		return
	}
	h.page(w, r, http.StatusOK, views.PageShow, views.ShowPage{
		Common: common(w, r, pollTitle(poll)),
		Poll:   poll,
		Voters: poll.Voters(),
		Values: h.store.VoteValues(),
	})
}

// ShowByIssue handles GET /polls/by_issue/{issue_id}
func (h *PollHandler) ShowByIssue(w http.ResponseWriter, r *http.Request) {
	issueID, err := pathID(r, "issue_id")
	if err != nil {
		h.errorPage(w, r, http.StatusNotFound, err.Error())
		return
	}

	pollID, err := h.store.PollIDByIssue(r.Context(), issueID)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}

	if !middleware.IsAPI(r) {
		redirect(w, r, pollURL(pollID), "")
		return
	}

	poll, err := h.store.LoadPoll(r.Context(), pollID)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}
	middleware.Respond(w, r, http.StatusOK, models.PollEnvelope{Poll: poll})
}

// Destroy handles DELETE /polls/{id}
func (h *PollHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	poll, err := h.loadPoll(r)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}

	if err := h.store.DeletePoll(r.Context(), poll.ID); err != nil {
		h.fail(w, r, err, "delete poll")
		return
	}

	h.log(r).Info("poll deleted", zap.Int64("poll_id", poll.ID), zap.Int64("issue_id", poll.IssueID))

	if !middleware.IsAPI(r) {
		redirect(w, r, fmt.Sprintf("/issues/%d", poll.IssueID), "Successful deletion.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) loadPoll(r *http.Request) (*models.Poll, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return h.store.LoadPoll(r.Context(), id)
}
