package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"cari_magang/config"
	"cari_magang/httputil"
	"cari_magang/jobboard"
	"cari_magang/logging"
	"cari_magang/models"
	"cari_magang/scheduler"
	"cari_magang/server"
	"cari_magang/services"
	"cari_magang/storage"
)

var syncNow = flag.Bool("sync", false, "Run one sync and exit")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting cari_magang...")

	ctx := context.Background()

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DatabaseURL))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = storage.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: redis unavailable, stats cache disabled: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
			log.Println("Connected to Redis")
		}
	}

	clients := httputil.NewClients()
	client := jobboard.NewClient(&cfg.JobBoard, clients.JobBoard)
	if !client.HasCredentials() {
		log.Println("Warning: RAPIDAPI_KEY / RAPIDAPI_HOST not set, sync runs will be no-ops")
	}

	syncService := services.NewSyncService(client, store)
	statsService := services.NewStatsService(store, rdb, 5*time.Minute)

	if *syncNow {
		log.Println("Running one-shot sync...")
		summary := syncService.Sync(ctx, models.TriggerManual, cfg.Scheduler.Defaults)
		if !summary.Success {
			log.Fatalf("Sync failed: %s", summary.Message)
		}
		log.Printf("Sync complete: %d saved, %d skipped", summary.SavedCount, summary.SkippedCount)
		return
	}

	sched, err := scheduler.New(&cfg.Scheduler, syncService)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := server.New(cfg, syncService, statsService, store)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("Goodbye!")
}

// maskConnectionString hides the password when logging the DSN.
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "(unparseable connection string)"
	}
	return u.Redacted()
}
