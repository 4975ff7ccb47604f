package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-pilot/internal/analysis"
	"export-pilot/internal/config"
	"export-pilot/internal/export"
	"export-pilot/internal/ingest"
	"export-pilot/internal/labs"
	"export-pilot/internal/repository"
	"export-pilot/internal/schema"
	"export-pilot/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()
	slogger := buildSlog(cfg.Log)
	slog.SetDefault(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, slogger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := repository.Healthcheck(ctx, db); err != nil {
		log.Fatalf("store health failed: %v", err)
	}
	log.Infow("store health OK")

	master, err := schema.Load()
	if err != nil {
		log.Fatalf("loading master schema: %v", err)
	}
	catalog, err := labs.LoadCatalog()
	if err != nil {
		log.Fatalf("loading lab catalog: %v", err)
	}

	projects := repository.NewProjectRepository(db, slogger)
	files := repository.NewFileRepository(db, slogger)
	runs := repository.NewRunRepository(db, slogger)
	actionItems := repository.NewActionItemRepository(db, slogger)
	runner := analysis.NewRunner(runs, slogger)

	if cfg.Watch.Enabled {
		// The watcher registers into the newest project; a dedicated project
		// per watch root is a config concern for later.
		ps, err := projects.List(ctx)
		if err != nil || len(ps) == 0 {
			log.Warnw("watcher disabled: no project to ingest into", "error", err)
		} else {
			target := ps[len(ps)-1]
			ing := ingest.NewFSIngestor(projects, files)
			ws := ingest.NewWatchService(ing, slogger)
			if err := ws.Run(ctx, target.ID, ingest.WatchConfig{
				Roots:       cfg.Watch.Roots,
				InitialScan: true,
				Debounce:    cfg.Watch.Debounce,
			}); err != nil {
				log.Fatalf("starting watcher: %v", err)
			}
			defer ws.Close(5 * time.Second)
			log.Infow("watching directories", "roots", cfg.Watch.Roots, "project_id", target.ID)
		}
	}

	gin.SetMode(ginMode(cfg.Server.Mode))
	srv := server.New(server.Deps{
		DB:          db,
		Projects:    projects,
		Files:       files,
		Runs:        runs,
		ActionItems: actionItems,
		Runner:      runner,
		Exporter:    export.NewService(slogger),
		Master:      master,
		Catalog:     catalog,
		Logger:      logger,
	})

	httpSrv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("HTTP serving on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	if err := runner.Wait(shutdownCtx); err != nil {
		log.Warnf("runner drain: %v", err)
	}
	fmt.Println("stopped.")
}

func buildLogger(lc config.LogConfig) *zap.Logger {
	var zc zap.Config
	if lc.Format == "text" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if lvl, err := zap.ParseAtomicLevel(lc.Level); err == nil {
		zc.Level = lvl
	}
	logger, err := zc.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

func buildSlog(lc config.LogConfig) *slog.Logger {
	var lvl slog.Level
	switch lc.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if lc.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func ginMode(mode string) string {
	if mode == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
