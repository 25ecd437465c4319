// career-catalyst opportunity service
//
// Tracks job opportunities through an application pipeline:
//   - record store CRUD over opportunities and tracked user opportunities
//   - criteria search over the stored feed
//   - application-status state machine (SAVED → … → ACCEPTED)
//   - multi-board aggregate search with dedup, bookmarking and CSV export
//
// A cron-driven refresh keeps the opportunity feed populated from the
// configured job boards. Status changes publish EVENT_STATUS_CHANGED to
// Redis for gateway SSE forwarding.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
	"github.com/michaelprosario/career-catalyst/internal/config"
	"github.com/michaelprosario/career-catalyst/internal/db"
	"github.com/michaelprosario/career-catalyst/internal/httpapi"
	"github.com/michaelprosario/career-catalyst/internal/lifecycle"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/scheduler"
	"github.com/michaelprosario/career-catalyst/internal/search"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[opportunity-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[opportunity-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[opportunity-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[opportunity-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[opportunity-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[opportunity-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[opportunity-service] Redis connected ✓")

	// ── Document stores ──────────────────────────────────────────────────────
	oppStore, err := store.NewPostgres[model.Opportunity](pool, "opportunities")
	if err != nil {
		log.Fatalf("[opportunity-service] Store: %v", err)
	}
	userStore, err := store.NewPostgres[model.UserOpportunity](pool, "user_opportunities")
	if err != nil {
		log.Fatalf("[opportunity-service] Store: %v", err)
	}
	for _, s := range []interface {
		EnsureSchema(context.Context) error
	}{oppStore, userStore} {
		if err := s.EnsureSchema(ctx); err != nil {
			log.Fatalf("[opportunity-service] Schema: %v", err)
		}
	}

	// ── Services ─────────────────────────────────────────────────────────────
	oppRecords := records.NewService[model.Opportunity, *model.Opportunity](oppStore)
	userRecords := records.NewService[model.UserOpportunity, *model.UserOpportunity](userStore)
	engine := search.NewEngine(oppStore, userStore)
	transitions := lifecycle.NewService(userRecords, rdb)

	var backends []aggregator.Backend
	backends = append(backends, aggregator.NewAdzunaBackend(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry))
	backends = append(backends, aggregator.NewJoobleBackend(cfg.JoobleAPIKey))
	pipeline := aggregator.NewPipeline(backends, userRecords, userStore, rdb)

	// ── Feed refresh ─────────────────────────────────────────────────────────
	sched := scheduler.New(pipeline, oppRecords, oppStore, scheduler.Feed{
		SearchTerms:   cfg.FeedSearchTerms,
		Locations:     cfg.FeedLocations,
		ResultsWanted: cfg.FeedResultsWanted,
		ExcludeTerms:  cfg.FeedExcludeTerms,
	}, cfg.RefreshIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[opportunity-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpapi.NewHandler(engine, oppRecords, userRecords, transitions, pipeline)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[opportunity-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[opportunity-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[opportunity-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[opportunity-service] Shutdown error: %v", err)
	}
	log.Println("[opportunity-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "opportunity-service",
		"version": version,
	})
}
