// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/models"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/views"
)

// IssueHandler serves the minimal issue tracker the polls hang off
type IssueHandler struct {
	responder
	store *store.Store
}

func NewIssueHandler(st *store.Store, renderer *views.Renderer, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{
		responder: responder{views: renderer, logger: logger},
		store:     st,
	}
}

// Create handles POST /issues
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIssueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		middleware.ErrorResponse(w, r, http.StatusBadRequest, "subject is required")
		return
	}

	issue, err := h.store.CreateIssue(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "create issue")
		return
	}

	h.log(r).Info("issue created", zap.Int64("issue_id", issue.ID))
	middleware.Respond(w, r, http.StatusCreated, models.IssueEnvelope{Issue: issue})
}

// Show handles GET /issues/{id}
func (h *IssueHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errorPage(w, r, http.StatusNotFound, err.Error())
		return
	}

	issue, err := h.store.IssueWithJournals(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "load issue")
		return
	}

	if middleware.IsAPI(r) {
		middleware.Respond(w, r, http.StatusOK, models.IssueEnvelope{Issue: issue})
		return
	}

	pollID, err := h.store.PollIDByIssue(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, err, "load poll")
		return
	}
	h.page(w, r, http.StatusOK, views.PageIssue, views.IssuePage{
		Common: common(w, r, views.IssueLabel(issue)),
		Issue:  issue,
		PollID: pollID,
	})
}

// UserHandler registers users and hands out their API keys
type UserHandler struct {
	responder
	store *store.Store
	salt  string
}

func NewUserHandler(st *store.Store, salt string, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger},
		store:     st,
		salt:      salt,
	}
}

// Create handles POST /users. The API key is only ever shown in this response.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" {
		middleware.ErrorResponse(w, r, http.StatusBadRequest, "login is required")
		return
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		h.log(r).Error("failed to generate api key", zap.Error(err))
		middleware.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req, auth.HashAPIKey(apiKey, h.salt))
	if errors.Is(err, store.ErrUserExists) {
		middleware.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		h.log(r).Error("failed to create user", zap.Error(err))
		middleware.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.log(r).Info("user created", zap.Int64("user_id", user.ID), zap.String("login", user.Login))
	middleware.Respond(w, r, http.StatusCreated, models.CreateUserResponse{
		User:   user,
		APIKey: apiKey,
	})
}
