// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/views"
)

type VotingHandler struct {
	responder
	store *store.Store
}

func NewVotingHandler(st *store.Store, renderer *views.Renderer, logger *zap.Logger) *VotingHandler {
	return &VotingHandler{
		responder: responder{views: renderer, logger: logger},
		store:     st,
	}
}

// Vote handles POST /polls/{id}/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errorPage(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	pollID, err := pathID(r, "id")
	if err != nil {
		h.errorPage(w, r, http.StatusNotFound, err.Error())
		return
	}

	votes, comment, err := parseVoteRequest(r)
	if err != nil {
		h.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	changes, err := h.store.SubmitVotes(r.Context(), pollID, user.ID, votes, comment)
	if errors.Is(err, store.ErrNoChanges) {
		h.log(r).Info("vote without changes",
			zap.Int64("poll_id", pollID),
			zap.Int64("user_id", user.ID),
		)
		h.rejectVote(w, r, pollID, "No vote was changed")
		return
	}
	if err != nil {
		h.fail(w, r, err, "save votes")
		return
	}

	h.log(r).Info("votes saved",
		zap.Int64("poll_id", pollID),
		zap.Int64("user_id", user.ID),
		zap.Int("changes", len(changes)),
		zap.Bool("commented", comment != ""),
	)

	if !middleware.IsAPI(r) {
		redirect(w, r, pollURL(pollID), "Successful vote.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rejectVote answers 422. Browsers get the poll page again with the error.
func (h *VotingHandler) rejectVote(w http.ResponseWriter, r *http.Request, pollID int64, message string) {
	if middleware.IsAPI(r) {
		middleware.ErrorResponse(w, r, http.StatusUnprocessableEntity, message)
		return
	}

	poll, err := h.store.LoadPoll(r.Context(), pollID)
	if err != nil {
		h.fail(w, r, err, "load poll")
		return
	}
	h.page(w, r, http.StatusUnprocessableEntity, views.PageShow, views.ShowPage{
		Common: common(w, r, pollTitle(poll)),
		Poll:   poll,
		Voters: poll.Voters(),
		Values: h.store.VoteValues(),
		Error:  message,
	})
}
