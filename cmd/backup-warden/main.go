package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vharren/backup-warden/internal/config"
	"github.com/vharren/backup-warden/internal/fs"
	"github.com/vharren/backup-warden/internal/logging"
	"github.com/vharren/backup-warden/internal/mailbox"
	"github.com/vharren/backup-warden/internal/retention"
	"github.com/vharren/backup-warden/internal/scheduler"
	"github.com/vharren/backup-warden/internal/snapshot"
	"github.com/vharren/backup-warden/internal/tracker"
	"github.com/vharren/backup-warden/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	// Config is loaded once and immutable for the process lifetime.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	// Mailbox for change hints
	hints := mailbox.New[scheduler.Hint]()

	filesystem := fs.New()

	tr := tracker.New(cfg.WatchFolder)
	writer := snapshot.NewWriter(filesystem, logg)
	pruner := retention.NewPruner(filesystem, logg, cfg.RetentionDays)

	sched := scheduler.New(
		cfg.WatchFolder,
		cfg.BackupLocations,
		cfg.Schedule,
		tr,
		writer,
		pruner,
		hints,
		logg,
	)

	watch := watcher.New(cfg.WatchFolder, cfg.Watch, logg, hints)

	// Start watcher loop
	go func() {
		if err := watch.Start(ctx); err != nil {
			logg.Error("watcher stopped", "error", err)
		}
	}()

	// The scheduler loop blocks until shutdown.
	if err := sched.Run(ctx); err != nil {
		log.Fatalf("scheduler failed: %v", err)
	}

	log.Println("exit complete")
}
