// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/cliparse"
	"github.com/danielhkuo/scheduling-poll/handlers"
	"github.com/danielhkuo/scheduling-poll/middleware"
	"github.com/danielhkuo/scheduling-poll/store"
	"github.com/danielhkuo/scheduling-poll/views"
)

// Optional ".json" / ".xml" suffix, read back by middleware.RequestFormat
const format = "{format:(?:\\.json|\\.xml)?}"

func NewRouter(db *sql.DB, cfg cliparse.Config, logger *zap.Logger) (http.Handler, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	st := store.New(db, cfg.VoteValues)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(st, renderer, logger)
	votingHandler := handlers.NewVotingHandler(st, renderer, logger)
	issueHandler := handlers.NewIssueHandler(st, renderer, logger)
	userHandler := handlers.NewUserHandler(st, cfg.APIKeySalt, logger)

	r := mux.NewRouter()
	r.Use(middleware.Authenticate(st, cfg.APIKeySalt, logger))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Users and issues
	r.HandleFunc("/users"+format, userHandler.Create).Methods("POST")
	r.HandleFunc("/issues"+format, middleware.RequireUser(issueHandler.Create)).Methods("POST")
	r.HandleFunc("/issues/{id:[0-9]+}"+format, issueHandler.Show).Methods("GET")

	// Poll lifecycle
	r.HandleFunc("/polls/new", pollHandler.New).Methods("GET")
	r.HandleFunc("/polls"+format, middleware.RequireUser(pollHandler.Create)).Methods("POST")
	r.HandleFunc("/polls/by_issue/{issue_id:[0-9]+}"+format, pollHandler.ShowByIssue).Methods("GET")
	r.HandleFunc("/polls/{id:[0-9]+}/edit", pollHandler.Edit).Methods("GET")
	r.HandleFunc("/polls/{id:[0-9]+}"+format, pollHandler.Show).Methods("GET")
	r.HandleFunc("/polls/{id:[0-9]+}"+format, middleware.RequireUser(pollHandler.Update)).Methods("PATCH", "PUT", "POST")
	r.HandleFunc("/polls/{id:[0-9]+}"+format, middleware.RequireUser(pollHandler.Destroy)).Methods("DELETE")

	// Voting
	r.HandleFunc("/polls/{id:[0-9]+}/vote"+format, votingHandler.Vote).Methods("POST")

	// Root endpoint
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("scheduling-poll API v1"))
	}).Methods("GET")

	return middleware.CORS(middleware.WithLogging(logger)(r)), nil
}
