package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"tft-analyzer/internal/ddragon"
	"tft-analyzer/internal/discord"
	"tft-analyzer/internal/report"
	"tft-analyzer/internal/storage"
	"tft-analyzer/internal/tracker"
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

	match := flag.String("match", "", "Tracker/match identifier to analyze")
	mode := flag.String("mode", "summary", "Report mode: summary or complete")
	file := flag.String("file", "", "Analyze a snapshot blob from a file instead of the store")
	notify := flag.Bool("notify", false, "Post the report to DISCORD_WEBHOOK_URL")
	flag.Parse()

	if *match == "" && *file == "" {
		fmt.Println("Usage:")
		fmt.Println("  analyzer --match=NA1_1234567 [--mode=summary|complete] [--notify]")
		fmt.Println("  analyzer --file=snapshot.json.gz [--mode=summary|complete]")
		fmt.Println()
		fmt.Println("Snapshot blobs are read from BLOB_STORAGE_PATH unless --file is given.")
		os.Exit(1)
	}

	ctx := context.Background()

	raw, matchID, err := loadBlob(ctx, *match, *file)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			log.Fatalf("No tracker snapshot exists for %s", matchID)
		}
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	// Name tables are best-effort: the registry degrades to id-derived names
	// when Data Dragon is unreachable.
	registry := ddragon.NewRegistry()
	if err := registry.Load(); err != nil {
		log.Printf("Name data unavailable, using id-derived names: %v", err)
	}

	rep, err := report.Analyze(raw, report.Request{
		MatchIdentifier: matchID,
		Mode:            report.ParseMode(*mode),
	}, registry)
	if err != nil {
		if errors.Is(err, tracker.ErrMalformedEnvelope) {
			log.Fatalf("Snapshot for %s is malformed: %v", matchID, err)
		}
		log.Fatalf("Analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal report: %v", err)
	}
	fmt.Println(string(out))

	if *notify {
		webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
		if webhookURL == "" {
			log.Fatal("DISCORD_WEBHOOK_URL environment variable not set")
		}
		client := discord.NewWebhookClient(webhookURL)
		if err := client.SendMatchReport(ctx, rep); err != nil {
			log.Fatalf("Failed to post report: %v", err)
		}
		fmt.Println("Report posted to Discord")
	}
}

// loadBlob reads the snapshot either from a file or from the blob store.
func loadBlob(ctx context.Context, match, file string) ([]byte, string, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, file, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if match == "" {
			match = file
		}
		return raw, match, nil
	}

	dir := os.Getenv("BLOB_STORAGE_PATH")
	if dir == "" {
		return nil, match, fmt.Errorf("BLOB_STORAGE_PATH environment variable not set")
	}

	store, err := storage.NewFileStore(dir)
	if err != nil {
		return nil, match, err
	}

	raw, err := store.Get(ctx, match)
	return raw, match, err
}
