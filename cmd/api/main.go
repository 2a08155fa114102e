package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"scamlab-go/internal/analyzer"
	"scamlab-go/internal/call"
	"scamlab-go/internal/config"
	"scamlab-go/internal/dataset"
	"scamlab-go/internal/logger"
	"scamlab-go/internal/retell"
	"scamlab-go/internal/server"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg := config.Load()
	log := logger.New()
	log.WithField("service", "scamlab-go").Info("starting service")

	// A broken dataset degrades to an empty chart API, not a crash.
	log.WithField("dataset_path", cfg.DatasetPath).Info("loading scenario dataset")
	rows, warnings, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		log.WithError(err).Warn("dataset load failed, continuing with empty dataset")
		rows = nil
	}
	if warnings > 0 {
		log.WithField("dropped_rows", warnings).Warn("dataset contained malformed rows")
	}
	log.WithField("rows", len(rows)).Info("scenario dataset loaded")

	dialer := retell.NewClient(cfg.RetellBaseURL, cfg.RetellAPIKey)
	an := analyzer.NewClient(cfg.CompletionBaseURL, cfg.CompletionAPIKey, cfg.CompletionModel)
	manager := call.NewManager(context.Background(), dialer, an,
		cfg.RetellAgentID, cfg.FromNumber, cfg.PollInterval, cfg.PollCeiling)

	srv := server.New(rows, manager, an)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
