/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Insight Engine server. Loads the four
  operational tables into an immutable analysis context, then serves the
  analysis operations over HTTP.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load thresholds (compiled-in defaults, or a TOML override file)
  3. Resolve the dataset source (CSV directory and/or SQLite snapshot)
  4. Load and validate the four tables into the analysis context
  5. Configure HTTP router and start with graceful shutdown

COMMAND-LINE FLAGS:
  -port        HTTP server port (default: 8080)
  -data        Directory containing sales.csv, marketing.csv,
               inventory.csv, unit_economics.csv
  -db          SQLite snapshot path. With -data, the CSVs are imported
               into the snapshot first; alone, the snapshot is the source.
  -thresholds  Optional TOML file overriding interpretation thresholds

EXAMPLES:
  # Serve straight from a CSV directory
  ./server -data=./testdata

  # Import CSVs into a snapshot, then serve from it
  ./server -data=./testdata -db=./insight.db

  # Serve from an existing snapshot with custom thresholds
  ./server -db=./insight.db -thresholds=./thresholds.toml

SEE ALSO:
  - api/server.go: Router configuration
  - dataset/loader.go: Table validation and context construction
  - store/sqlite/sqlite.go: Snapshot store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/insight-engine/api"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/factory"
	"github.com/warp/insight-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dataDir := flag.String("data", "", "directory containing the four CSV tables")
	dbPath := flag.String("db", "", "SQLite snapshot path")
	thresholdsPath := flag.String("thresholds", "", "TOML thresholds override file")
	flag.Parse()

	if *dataDir == "" && *dbPath == "" {
		log.Fatal("either -data or -db is required")
	}

	// Thresholds
	thresholds := factory.Defaults()
	if *thresholdsPath != "" {
		var err error
		thresholds, err = factory.LoadFile(*thresholdsPath)
		if err != nil {
			log.Fatalf("Failed to load thresholds: %v", err)
		}
	}

	// Resolve the dataset source
	src, cleanup, err := resolveSource(*dataDir, *dbPath)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	defer cleanup()

	ctx, err := dataset.Load(src)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded dataset session %s (%d sales rows)", ctx.SessionID, len(ctx.Sales))

	// Router
	handler := api.NewHandler(ctx, thresholds)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// resolveSource picks the dataset source from the flag combination. With
// both -data and -db, the CSVs are imported into the snapshot first and the
// snapshot becomes the source of record.
func resolveSource(dataDir, dbPath string) (dataset.Source, func(), error) {
	if dbPath == "" {
		return dataset.NewDirSource(dataDir), func() {}, nil
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { store.Close() }

	if dataDir != "" {
		if err := importCSVs(store, dataDir); err != nil {
			store.Close()
			return nil, nil, err
		}
		log.Printf("Imported CSV tables from %s into %s", dataDir, dbPath)
	}
	return store, cleanup, nil
}

func importCSVs(store *sqlite.Store, dir string) error {
	src := dataset.NewDirSource(dir)
	sets := []string{dataset.SetSales, dataset.SetMarketing, dataset.SetInventory, dataset.SetUnitEconomics}
	for _, name := range sets {
		t, err := src.Table(name)
		if err != nil {
			return err
		}
		if err := store.ImportTable(name, t); err != nil {
			return err
		}
	}
	return nil
}
