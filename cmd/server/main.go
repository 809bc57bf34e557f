package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medoo24/quizbank/internal/api"
	"github.com/medoo24/quizbank/internal/config"
	"github.com/medoo24/quizbank/internal/db"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/jobs"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository/sqlite"
	"github.com/medoo24/quizbank/internal/services"
	"github.com/medoo24/quizbank/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizBank Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("ingest_worker_count=%d", cfg.IngestWorkerCount)
	log.Debug("ingest_queue_size=%d", cfg.IngestQueueSize)
	log.Debug("quiz_default_count=%d", cfg.QuizDefaultCount)
	log.Debug("quiz_default_mins=%d", cfg.QuizDefaultMins)
	log.Debug("max_upload_bytes=%d", cfg.MaxUploadBytes)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	fileRepo := sqlite.NewQuestionFileRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	favoriteRepo := sqlite.NewFavoriteRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	// Initialize the in-memory question tree and services
	engine := hierarchy.New()
	studyService := services.NewStudyService(engine, fileRepo, progressRepo, favoriteRepo, settingsRepo)
	quizService := services.NewQuizService(engine, progressRepo, models.QuizConfig{
		Count:            cfg.QuizDefaultCount,
		TimeLimitMinutes: cfg.QuizDefaultMins,
	})

	// Initialize worker pool and job queue
	ingestPool := worker.NewPool(cfg.IngestWorkerCount, cfg.IngestQueueSize)
	queue := jobs.NewWorkerQueue(ingestPool, studyService)

	srv := &api.Server{
		DB:             database,
		Study:          studyService,
		Quiz:           quizService,
		Queue:          queue,
		MaxUploadBytes: int64(cfg.MaxUploadBytes),
	}

	ctx, cancel := context.WithCancel(context.Background())
	ingestPool.Start(ctx)

	// Build the tree from cached files before accepting traffic.
	startupCtx := logger.NewContext(ctx, log.WithPrefix("startup"))
	if result, err := studyService.ReloadAll(startupCtx); err != nil {
		log.Error("initial question load failed: %v", err)
	} else {
		log.Info("initial question load complete: files=%d, questions=%d, skipped=%d",
			result.Files, result.Loaded, len(result.Skipped))
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Stop quiz countdowns and the ingest pool
	log.Debug("closing quiz sessions")
	quizService.Shutdown()
	log.Debug("stopping ingest pool")
	ingestPool.Stop()

	log.Info("===========================================")
	log.Info("QuizBank Server Stopped")
	log.Info("===========================================")
}
