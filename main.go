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

	"render-vector/api"
	"render-vector/config"
	"render-vector/store"
)

func main() {
	// load the environment variables
	_ = godotenv.Load()

	// parse the command line arguments
	cfg := parseFlags()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize logging
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)

	// Print welcome message
	printWelcome()

	// Create vector registry
	registry := store.NewRegistry(cfg)
	snapshots := store.NewSnapshotManager(cfg.Storage.DataPath)

	// Load existing snapshot
	if cfg.Storage.SnapshotEnabled {
		if err := snapshots.Load(registry); err != nil {
			log.Fatal("Failed to load snapshot: ", err)
		}
		log.Info("Loaded ", registry.Count(), " vectors from snapshot")
	}

	// Start snapshot worker
	stopSnapshots := make(chan struct{})
	if cfg.Storage.SnapshotEnabled {
		go snapshotWorker(registry, snapshots, cfg.Storage.SnapshotInterval, stopSnapshots)
	}

	// Create and start API server
	apiServer := api.NewServer(registry)
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Info("Starting API server on ", addr)
		if err := apiServer.Start(addr); err != nil {
			log.Fatal("Failed to start API server: ", err)
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	log.Info("Shutting down...")

	// Stop snapshot worker
	close(stopSnapshots)

	// Save the registry one last time
	if cfg.Storage.SnapshotEnabled {
		if err := snapshots.Save(registry); err != nil {
			log.Error("Failed to save snapshot during shutdown: ", err)
		}
	}
}

func snapshotWorker(registry *store.Registry, snapshots *store.SnapshotManager, interval int, stop chan struct{}) {
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := snapshots.Save(registry); err != nil {
				log.Error("Failed to save snapshot: ", err)
			}
		case <-stop:
			return
		}
	}
}

func parseFlags() *config.Config {
	// Load default config
	cfg, err := config.LoadFromFile("./config.json")
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Environment overrides
	cfg = config.LoadFromEnv(cfg)

	// Server flags
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Host address")
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Port number")

	// Storage flags
	flag.StringVar(&cfg.Storage.DataPath, "data-path", cfg.Storage.DataPath, "Path to store snapshot files")
	flag.BoolVar(&cfg.Storage.SnapshotEnabled, "snapshot", cfg.Storage.SnapshotEnabled, "Enable snapshot persistence")
	flag.IntVar(&cfg.Storage.SnapshotInterval, "snapshot-interval", cfg.Storage.SnapshotInterval, "Snapshot interval in seconds")

	// Registry flags
	flag.IntVar(&cfg.Registry.MaxVectors, "max-vectors", cfg.Registry.MaxVectors, "Maximum number of live vectors (0 = unlimited)")

	// Log level flag
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error, fatal)")

	// Parse flags
	flag.Parse()

	return cfg
}

func printWelcome() {
	fmt.Println("8888888b.  888     888 8888888888 .d8888b.  ")
	fmt.Println("888   Y88b 888     888 888       d88P  Y88b ")
	fmt.Println("888    888 888     888 888       888    888 ")
	fmt.Println("888   d88P Y88b   d88P 8888888   888        ")
	fmt.Println("8888888P'   Y88b d88P  888       888        ")
	fmt.Println("888 T88b     Y88o88P   888       888    888 ")
	fmt.Println("888  T88b     Y888P    888       Y88b  d88P ")
	fmt.Println("888   T88b     Y8P     8888888888 'Y8888P'  ")
}
