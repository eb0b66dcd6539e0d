package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/config"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/export"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/exporter"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/reddit"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/store"
)

var (
	configPath  = flag.String("config", "config.yaml", "Path to configuration file")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	stats       = flag.Bool("stats", false, "Display statistics and exit")
	dryRun      = flag.Bool("dry-run", false, "Format documents without writing anything")
	snapshotOut = flag.String("snapshot", "", "Write a JSON snapshot of all exported items to this path and exit")
)

func main() {
	flag.Parse()

	// Configure logging
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	log.Info("Starting Saved Reddit Exporter")

	// Credentials may live in a .env file next to the binary
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.SetDefaults()

	log.Infof("Loaded configuration from %s", *configPath)
	log.Infof("Vault directory: %s", cfg.Export.VaultDirectory)
	log.Infof("Origins: %v", cfg.Export.Origins)
	log.Infof("Run mode: %s", cfg.RunMode.Mode)

	// Initialize export ledger
	db, err := store.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Infof("Export ledger initialized at %s", cfg.Database.Path)

	// Display stats if requested
	if *stats {
		displayStats(db)
		return
	}

	// Write a snapshot if requested
	if *snapshotOut != "" {
		writeSnapshot(db, *snapshotOut)
		return
	}

	// Initialize API client
	apiClient := reddit.NewClient(cfg.Reddit)

	// Login
	log.Info("Authenticating with Reddit...")
	if err := apiClient.Login(cfg.Reddit); err != nil {
		log.Fatalf("Failed to authenticate: %v", err)
	}

	// Initialize exporter
	e := exporter.New(cfg, apiClient, db, *dryRun)

	// Run based on mode
	if cfg.RunMode.Mode == "once" {
		runOnce(e)
	} else {
		runContinuous(e, cfg.RunMode.Interval)
	}
}

// runOnce runs the exporter once and exits
func runOnce(e *exporter.Exporter) {
	log.Info("Running in one-time mode")
	if err := e.Run(); err != nil {
		log.Errorf("Export error: %v", err)
		os.Exit(1)
	}
	log.Info("Export completed successfully")
}

// runContinuous runs the exporter on an interval
func runContinuous(e *exporter.Exporter, interval time.Duration) {
	log.Infof("Running in continuous mode with interval: %s", interval)

	// Create a channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Create ticker for interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately first time
	if err := e.Run(); err != nil {
		log.Errorf("Export error: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			log.Info("Starting scheduled export run")
			if err := e.Run(); err != nil {
				log.Errorf("Export error: %v", err)
			}
		case sig := <-sigChan:
			log.Infof("Received signal %v, shutting down gracefully", sig)
			return
		}
	}
}

// displayStats shows statistics about exported items
func displayStats(db *store.DB) {
	stats, err := db.GetStats()
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}

	fmt.Println("\n=== Saved Reddit Exporter Statistics ===")
	fmt.Printf("\nTotal exported items: %d\n", stats.TotalItems)

	if len(stats.ByType) > 0 {
		fmt.Println("\nBy item type:")
		for itemType, count := range stats.ByType {
			fmt.Printf("  %s: %d\n", itemType, count)
		}
	}

	if len(stats.TopSubreddits) > 0 {
		fmt.Println("\nTop subreddits:")
		for subreddit, count := range stats.TopSubreddits {
			fmt.Printf("  r/%s: %d\n", subreddit, count)
		}
	}

	fmt.Println()
}

// writeSnapshot dumps the full export ledger as a JSON package
func writeSnapshot(db *store.DB, path string) {
	items, err := db.ListExported()
	if err != nil {
		log.Fatalf("Failed to list exported items: %v", err)
	}
	pkg := export.BuildPackage(items)
	if err := export.WriteJSON(path, pkg); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}
	log.Infof("Wrote snapshot of %d items to %s", pkg.Count, path)
}
