package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandpulse/internal/config"
	"brandpulse/internal/notify"
	"brandpulse/internal/objstore"
	"brandpulse/internal/pipeline"
	"brandpulse/internal/server"
	"brandpulse/internal/storage"
	"brandpulse/internal/tracker"
	"brandpulse/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := util.NewLogger()

	store, err := storage.Open(cfg)
	must(err)
	defer store.Close()

	objects, err := objstore.Open(cfg)
	must(err)

	trk := tracker.New(store, cfg, log)
	processor := pipeline.NewProcessor(store, trk, objects, cfg, log)
	notifier := notify.NewSlackNotifier(cfg.SlackWebhookURL, log)
	handler := server.NewHandler(processor, notifier, cfg, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.Router(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("upload server listening on :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		must(err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		must(err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
