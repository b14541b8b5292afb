package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"haru/internal/config"
	"haru/internal/logging"
	"haru/internal/storage"
	"haru/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolvePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("open store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	log.Info("started", zap.String("db", cfg.DBPath))
	if err := ui.Run(store, cfg, log); err != nil {
		log.Error("ui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
	log.Info("stopped")
}
