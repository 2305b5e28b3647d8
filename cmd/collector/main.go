package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tft-analyzer/internal/collector"
	"tft-analyzer/internal/livefeed"
	"tft-analyzer/internal/riot"
	"tft-analyzer/internal/storage"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	players := flag.String("players", "", "Tracked players as PUUID@SERVER, comma separated")
	interval := flag.Duration("interval", 5*time.Minute, "Poll interval")
	workers := flag.Int("workers", collector.DefaultWorkerCount, "Fetch worker count")
	feedURL := flag.String("feed", "", "In-game tracker websocket URL (e.g. ws://127.0.0.1:9420)")
	flag.Parse()

	dataDir := os.Getenv("BLOB_STORAGE_PATH")
	if dataDir == "" {
		log.Fatal("BLOB_STORAGE_PATH environment variable not set")
	}

	store, err := storage.NewFileStore(dataDir)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}
	fmt.Printf("Using storage path: %s\n", dataDir)

	if *players == "" && *feedURL == "" {
		fmt.Println("Usage:")
		fmt.Println("  collector --players='PUUID@NA1,PUUID@EUW1' [--interval=5m] [--workers=4]")
		fmt.Println("  collector --feed=ws://127.0.0.1:9420")
		fmt.Println()
		fmt.Println("Snapshot blobs are written gzipped to BLOB_STORAGE_PATH.")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n[Shutdown] Gracefully shutting down...")
		cancel()
	}()

	if *feedURL != "" {
		feed := livefeed.NewFeed(store)
		if err := feed.Connect(*feedURL); err != nil {
			log.Fatalf("Failed to connect live feed: %v", err)
		}
		defer feed.Close()
		fmt.Printf("Live feed connected: %s\n", *feedURL)
	}

	if *players == "" {
		<-ctx.Done()
		return
	}

	client, err := riot.NewClient()
	if err != nil {
		log.Fatalf("Failed to create riot client: %v", err)
	}

	tracked, err := parsePlayers(*players)
	if err != nil {
		log.Fatalf("Invalid --players value: %v", err)
	}

	poller := collector.NewPoller(client, store, tracked)
	poller.SetInterval(*interval)
	poller.SetWorkerCount(*workers)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Poller stopped: %v", err)
	}
	fmt.Printf("Stored %d snapshots\n", poller.Stored())
}

// parsePlayers splits "PUUID@SERVER,PUUID@SERVER" into tracked players.
func parsePlayers(s string) ([]collector.Player, error) {
	var players []collector.Player
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		puuid, server, ok := strings.Cut(part, "@")
		if !ok || puuid == "" || server == "" {
			return nil, fmt.Errorf("expected PUUID@SERVER, got %q", part)
		}
		players = append(players, collector.Player{PUUID: puuid, Server: server})
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("no players given")
	}
	return players, nil
}
