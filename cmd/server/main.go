package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"tft-analyzer/internal/ddragon"
	"tft-analyzer/internal/ledger"
	"tft-analyzer/internal/report"
	"tft-analyzer/internal/storage"
	"tft-analyzer/internal/tracker"
)

var (
	snapshots storage.Source
	resolver  *ddragon.Registry
	lpLedger  *ledger.Ledger
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

	ctx := context.Background()

	// Snapshot source: Postgres when DATABASE_URL is set, otherwise the
	// local blob directory.
	if os.Getenv("DATABASE_URL") != "" {
		store, err := storage.NewPostgresStore(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to snapshot database: %v", err)
		}
		defer store.Close()
		snapshots = store
		fmt.Println("Snapshot source: postgres")
	} else {
		dataDir := os.Getenv("BLOB_STORAGE_PATH")
		if dataDir == "" {
			log.Fatal("Set DATABASE_URL or BLOB_STORAGE_PATH")
		}
		store, err := storage.NewFileStore(dataDir)
		if err != nil {
			log.Fatalf("Failed to open blob store: %v", err)
		}
		snapshots = store
		fmt.Printf("Snapshot source: %s\n", dataDir)
	}

	ledgerPath := os.Getenv("LEDGER_DB_PATH")
	if ledgerPath == "" {
		ledgerPath = "lp_ledger.db"
	}
	var err error
	lpLedger, err = ledger.Open(ledgerPath)
	if err != nil {
		log.Fatalf("Failed to open LP ledger: %v", err)
	}
	defer lpLedger.Close()

	resolver = ddragon.NewRegistry()
	if err := resolver.Load(); err != nil {
		log.Printf("Name data unavailable, using id-derived names: %v", err)
	}

	http.HandleFunc("/api/report", handleReport)
	http.HandleFunc("/api/progression", handleProgression)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server listening on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// handleReport serves GET /api/report?match=ID&mode=summary|complete
func handleReport(w http.ResponseWriter, r *http.Request) {
	match := r.URL.Query().Get("match")
	if match == "" {
		writeError(w, http.StatusBadRequest, "missing match parameter")
		return
	}

	raw, err := snapshots.Get(r.Context(), match)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no tracker snapshot for %s", match))
			return
		}
		log.Printf("snapshot read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "snapshot read failed")
		return
	}

	rep, err := report.Analyze(raw, report.Request{
		MatchIdentifier: match,
		Mode:            report.ParseMode(r.URL.Query().Get("mode")),
	}, resolver)
	if err != nil {
		if errors.Is(err, tracker.ErrMalformedEnvelope) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// handleProgression serves the LP ledger:
//
//	GET  /api/progression?summoner=NAME
//	POST /api/progression?summoner=NAME&delta=-17
//	POST /api/progression?summoner=NAME&lp=234
func handleProgression(w http.ResponseWriter, r *http.Request) {
	summoner := r.URL.Query().Get("summoner")
	if summoner == "" {
		writeError(w, http.StatusBadRequest, "missing summoner parameter")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entries, err := lpLedger.Progression(r.Context(), summoner)
		if err != nil {
			log.Printf("progression read failed: %v", err)
			writeError(w, http.StatusInternalServerError, "progression read failed")
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodPost:
		if v := r.URL.Query().Get("lp"); v != "" {
			lp, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "lp must be an integer")
				return
			}
			if err := lpLedger.RecordAbsolute(r.Context(), summoner, lp); err != nil {
				log.Printf("ledger write failed: %v", err)
				writeError(w, http.StatusInternalServerError, "ledger write failed")
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "provide delta or lp as an integer")
			return
		}
		if err := lpLedger.RecordDelta(r.Context(), summoner, delta); err != nil {
			log.Printf("ledger write failed: %v", err)
			writeError(w, http.StatusInternalServerError, "ledger write failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError renders the single structured error object the API exposes.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
