// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/cliparse"
	"github.com/danielhkuo/scheduling-poll/db"
	"github.com/danielhkuo/scheduling-poll/logging"
	"github.com/danielhkuo/scheduling-poll/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		logger.Fatal("Error parsing flags", zap.Error(err))
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		logger.Fatal("database ping failed", zap.Error(err), zap.String("type", cfg.DatabaseType))
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		logger.Fatal("schema creation failed", zap.Error(err))
	}
	logger.Info("Database schema ready", zap.String("type", cfg.DatabaseType))

	// Create router
	handler, err := router.NewRouter(dbConn, cfg, logger)
	if err != nil {
		logger.Fatal("router setup failed", zap.Error(err))
	}

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			server.Close()
		}
	}()

	// Start server
	logger.Info("Listening", zap.Int("port", cfg.Port), zap.Int("vote_values", len(cfg.VoteValues)))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server closed", zap.Error(err))
	} else {
		logger.Info("Server closed")
	}
}
