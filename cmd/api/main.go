package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redcap-42/runboard/pkg/analysis"
	"github.com/redcap-42/runboard/pkg/bootstrap"
	"github.com/redcap-42/runboard/pkg/server"
)

func main() {
	ctx := context.Background()

	svc, err := bootstrap.NewService(ctx, "api")
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	analysisSvc := analysis.New(svc.Store, svc.DB, svc.Config.ActivityBucket, slog.Default())
	srv := &http.Server{
		Addr:              ":" + svc.Config.Port,
		Handler:           server.New(analysisSvc, slog.Default()).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
