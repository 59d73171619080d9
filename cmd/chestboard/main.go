// Command chestboard runs the analytics pipeline over a weekly data
// directory and serves the results over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clanhq/chestboard/internal/adapters/http/api"
	"github.com/clanhq/chestboard/internal/adapters/source"
	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/config"
	"github.com/clanhq/chestboard/internal/domain/ranking"
	"github.com/clanhq/chestboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	fetcher := source.NewDirFetcher(cfg.DataDir,
		source.WithWeeksFile(cfg.WeeksFile),
		source.WithRulesFile(cfg.RulesFile),
		source.WithLogger(log.Named("source")),
	)

	svc := app.New(
		app.WithFetcher(fetcher),
		app.WithLogger(log.Named("app")),
		app.WithRankPolicy(ranking.Policy(cfg.RankPolicy)),
		app.WithSyntheticNames(cfg.SyntheticNames),
		app.WithDefaultSort(cfg.DefaultSortKey, ranking.Direction(cfg.DefaultSortDir)),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	mux := http.NewServeMux()
	api.NewServer(svc, cfg.MaxPlayersLimit, cfg.HistogramBuckets).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", logger.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server failed", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown failed", logger.Error(err))
	}
}
