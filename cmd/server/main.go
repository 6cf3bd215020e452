/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the tenure benefit reconciliation service.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load optional YAML config
  2. Initialize SQLite store (directory + updater + checkpoints)
  3. Create reconciliation engine and scheduler
  4. Start scheduler (immediate sweep, then recurring ticks)
  5. Start HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (optional; defaults apply when absent)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config; ":memory:" supported)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler (in-flight sweep finishes on its own)
  2. Stop accepting new connections, drain (30s timeout)
  3. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - scheduler/scheduler.go: Sweep driver
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/warp/tenure-engine/api"
	"github.com/warp/tenure-engine/config"
	"github.com/warp/tenure-engine/scheduler"
	"github.com/warp/tenure-engine/store/sqlite"
	"github.com/warp/tenure-engine/tenure"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Engine and scheduler
	engine := tenure.NewEngine(store, store, cfg.Guild)
	sched := scheduler.New(engine, store)
	sched.CheckInterval = cfg.Scheduler.CheckInterval.Std()
	sched.Enabled = func() bool { return cfg.Scheduler.Enabled }
	sched.Start()
	defer sched.Stop()

	// HTTP surface
	handler := api.NewHandler(store, engine, sched)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
