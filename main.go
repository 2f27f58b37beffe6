package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/limiter"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/router"
)

// In-flight requests get this long to finish after SIGINT/SIGTERM
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx := context.Background()

	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL, db.PoolConfigFrom(cfg), cfg.QueryTimeout)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "driver", cfg.DatabaseType)

	// A nil *LoginLimiter must not reach the interface, so only assign when enabled
	var attempts election.AttemptLimiter
	if cfg.RedisURL != "" {
		rdb, err := limiter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		attempts = limiter.New(rdb, limiter.Config{MaxAttempts: cfg.LoginMaxAttempts, Cooldown: cfg.LoginCooldown})
		slog.Info("Login limiter enabled", "max_attempts", cfg.LoginMaxAttempts, "cooldown", cfg.LoginCooldown)
	}

	svc, err := election.New(dbConn, cfg, attempts)
	if err != nil {
		return err
	}

	mux := router.NewRouter(svc, dbConn, cfg)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctrlc
		slog.Info("Shutting down", "timeout", shutdownTimeout)

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	slog.Info("Listening",
		"port", cfg.Port,
		"bcrypt_cost", cfg.BcryptCost,
		"max_open_conns", humanize.Comma(int64(cfg.MaxOpenConns)),
		"handle_ttl", cfg.HandleTTL,
	)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Wait for in-flight requests before the deferred pool close
	<-drained
	slog.Info("Server closed")
	return nil
}
