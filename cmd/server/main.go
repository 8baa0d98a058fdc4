package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/config"
	"github.com/stemsi/rosterdocs/internal/curriculum"
	"github.com/stemsi/rosterdocs/internal/database"
	"github.com/stemsi/rosterdocs/internal/handler"
	"github.com/stemsi/rosterdocs/internal/logger"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/remark"
	"github.com/stemsi/rosterdocs/internal/repository"
	"github.com/stemsi/rosterdocs/internal/roster"
	"github.com/stemsi/rosterdocs/internal/router"
	"github.com/stemsi/rosterdocs/internal/service"
	"github.com/stemsi/rosterdocs/internal/validator"
	"github.com/stemsi/rosterdocs/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting rosterdocs")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Curriculum ───────────────────────────────────────────────
	catalog, err := curriculum.Load(cfg.CurriculumFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CurriculumFile).Msg("Failed to load curriculum")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	importRepo := repository.NewImportRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Remark Model (optional) ───────────────────────────────────────
	var writer *remark.Writer
	if cfg.GeminiAPIKey != "" {
		gemini, err := remark.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		writer = remark.NewWriter(gemini, cfg.RemarkLimit, log)
		log.Info().Str("model", cfg.GeminiModel).Msg("Remark generation enabled")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, remark generation disabled")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	extractor := roster.NewExtractor(roster.Fallbacks{
		SchoolName:   cfg.DefaultSchoolName,
		AcademicYear: cfg.DefaultAcademicYear,
		Level:        model.Level(cfg.DefaultLevel),
	}, log)

	events := service.NewRedisEventPublisher(rdb)
	importService := service.NewImportService(importRepo, extractor, cfg.MaxUploadBytes, log)
	settingService := service.NewSettingService(settingRepo, documentDefaults(cfg), log)
	documentService := service.NewDocumentService(importRepo, catalog, settingService, log)
	remarkService := service.NewRemarkService(importRepo, writer, service.NewRedisRemarkQueue(rdb, service.DefaultRunTTL), events, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Import:   handler.NewImportHandler(importService, log),
		Document: handler.NewDocumentHandler(documentService, log),
		Remark:   handler.NewRemarkHandler(remarkService, log),
		Setting:  handler.NewSettingHandler(settingService, log),
		WS:       handler.NewWSHandler(importService, events, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	if remarkService.Available() {
		remarkWorker := worker.NewRemarkWorker(rdb, remarkService, log)
		go func() {
			remarkWorker.Start(workerCtx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the remark worker; an interrupted job goes back on the queue.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Remark worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// documentDefaults are the document settings used until the operator saves their own.
func documentDefaults(cfg *config.Config) model.DocumentSettings {
	m := cfg.PageMarginMM
	return model.DocumentSettings{
		TeacherName: cfg.TeacherName,
		SubjectName: cfg.SubjectName,
		Margins:     model.Margins{Top: m, Bottom: m, Left: m, Right: m},
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
