// jobautomation pipeline-service
//
// Backend for operator-managed job automation:
//   - client and search-profile management, resume upload
//   - idempotent ingestion of scraped jobs (upsert on client+source+link)
//   - pending-work selection for the external auto-apply orchestrator
//   - application result recording (last write wins per job+client)
//   - TF-IDF resume-match scoring, on demand and on a cron cadence
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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/clients"
	"jobautomation/pipeline-service/internal/config"
	"jobautomation/pipeline-service/internal/db"
	"jobautomation/pipeline-service/internal/logger"
	"jobautomation/pipeline-service/internal/pipeline"
	"jobautomation/pipeline-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()
	zlog.Info("postgres connected")

	if err := db.EnsureSchema(ctx, pool); err != nil {
		zlog.Fatal("schema bootstrap failed", zap.Error(err))
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()
	zlog.Info("redis connected")

	// ── Services ─────────────────────────────────────────────────────────────
	pipeSvc := pipeline.NewService(pool, rdb, zlog)
	clientSvc := clients.NewService(pool, zlog)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)

	pipeline.NewHandler(pipeSvc, zlog).RegisterRoutes(mux)
	clients.NewHandler(clientSvc, zlog).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		zlog.Info("pipeline-service listening",
			zap.String("version", version), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	// ── Sweep scheduler ──────────────────────────────────────────────────────
	sched := scheduler.New(pipeSvc, clientSvc, zlog, cfg.SweepIntervalHours, cfg.SweepBatchLimit)
	if err := sched.Start(ctx); err != nil {
		zlog.Fatal("scheduler start failed", zap.Error(err))
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("shutdown error", zap.Error(err))
	}
	zlog.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "pipeline-service",
		"version": version,
	})
}
