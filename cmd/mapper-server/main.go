// cmd/mapper-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visual-mapper/internal/bootstrap"
	"visual-mapper/internal/cache"
	"visual-mapper/internal/common/camunda"
	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/observability"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/internal/server"

	mel "visual-mapper/internal/workers/layout/map-entities-to-layout"
)

func main() {
	cfg, cfgErr := config.Load()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	if cfgErr != nil {
		zapLog.Warn("config problems, affected keys use defaults", zap.Error(cfgErr))
	}
	zapLog.Info("Starting mapper server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Tracing.ServiceName,
		TracingEnabled: cfg.Tracing.Enabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	}, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Warn("observability shutdown failed", zap.Error(err))
		}
	}()

	mapper, err := bootstrap.NewMapper(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("mapper init failed", zap.Error(err))
	}
	zapLog.Info("Mapper ready",
		zap.String("vocabularyVersion", mapper.VocabularyVersion()),
		zap.Strings("templates", mapper.Templates()),
	)

	responseCache, closeCache := bootstrap.OpenCache(ctx, cfg, log)
	defer closeCache()

	srv := server.New(server.Deps{
		Config:        cfg,
		Mapper:        mapper,
		Cache:         responseCache,
		Observability: obs,
		Logger:        log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return runWorkers(gctx, cfg, mapper, responseCache, log) })
	g.Go(func() error { return watchReload(gctx, cfg, mapper, log) })

	if err := g.Wait(); err != nil {
		zapLog.Error("mapper server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	zapLog.Info("Mapper server stopped")
}

// runWorkers serves layout jobs from the workflow engine until ctx ends.
// A disabled or unreachable engine leaves the HTTP server running alone.
func runWorkers(ctx context.Context, cfg *config.Config, mapper *pipeline.Mapper, c *cache.Cache, log logger.Logger) error {
	if !cfg.Camunda.Enabled || !config.IsWorkerEnabled(cfg, mel.TaskType) {
		log.Info("workflow workers disabled", nil)
		return nil
	}

	client, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		log.Error("Zeebe client unavailable, workers not started", map[string]interface{}{
			"broker": cfg.Camunda.BrokerAddress,
			"error":  err.Error(),
		})
		return nil
	}
	defer client.Close()
	log.Info("Zeebe client connected successfully", map[string]interface{}{"broker": cfg.Camunda.BrokerAddress})

	wcfg := config.GetWorkerConfig(cfg, mel.TaskType)
	handler := mel.NewHandler(mel.ConfigFrom(wcfg), mapper, c, log)
	w := camunda.NewWorker(client.GetClient(), mel.TaskType, wcfg, handler, log)

	<-ctx.Done()
	w.Stop()
	return nil
}

// watchReload swaps in a freshly loaded vocabulary on every SIGHUP.
func watchReload(ctx context.Context, cfg *config.Config, mapper *pipeline.Mapper, log logger.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			log.Info("SIGHUP received, reloading vocabulary", map[string]interface{}{"source": cfg.Vocabulary.Source})
			if err := bootstrap.ReloadVocabulary(ctx, mapper, cfg, log); err == nil {
				log.Info("Vocabulary reloaded", map[string]interface{}{"version": mapper.VocabularyVersion()})
			}
		}
	}
}
