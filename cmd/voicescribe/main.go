// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	voicescribe_routers "github.com/voicescribe/voicescribe/api/routers"
	"github.com/voicescribe/voicescribe/config"
	internal_capture_gateway "github.com/voicescribe/voicescribe/internal/capture/gateway"
	internal_metrics "github.com/voicescribe/voicescribe/internal/metrics"
	internal_resolver "github.com/voicescribe/voicescribe/internal/resolver"
	internal_session "github.com/voicescribe/voicescribe/internal/session"
	internal_sink "github.com/voicescribe/voicescribe/internal/sink"
	internal_transcriber "github.com/voicescribe/voicescribe/internal/transcriber"
	internal_transcriber_deepgram "github.com/voicescribe/voicescribe/internal/transcriber/deepgram"
	internal_transcriber_whisper "github.com/voicescribe/voicescribe/internal/transcriber/whisper"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
	"github.com/voicescribe/voicescribe/pkg/utils"
)

func main() {
	vConfig, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to initialize config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		log.Fatalf("unable to load application config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engines, err := buildEngineRegistry(cfg, logger)
	if err != nil {
		logger.Errorf("unable to configure transcription engine: %v", err)
		return
	}
	primary, err := engines.Primary()
	if err != nil {
		logger.Errorf("no transcription engine available: %v", err)
		return
	}
	logger.Infof("transcription engines: %v primary=%s", engines.Names(), primary.Name())

	promRegistry := prometheus.NewRegistry()
	metrics := internal_metrics.NewMetrics(promRegistry)

	gateway := internal_capture_gateway.NewGateway(logger)
	adapter := internal_transcriber.NewAdapter(logger, primary, cfg.TranscriberConfig.TmpDir)
	resolver := internal_resolver.NewStaticResolver(logger, internal_resolver.ParseNames(cfg.SpeakerNames))
	sink := buildSink(cfg, logger)

	registry := internal_session.NewRegistry(logger, gateway, adapter, resolver, sink, metrics, internal_session.Config{
		TargetRate:  cfg.AudioConfig.TargetRate,
		MinDuration: time.Duration(cfg.AudioConfig.MinDurationMs) * time.Millisecond,
		MaxWorkers:  cfg.AudioConfig.MaxWorkers,
	})

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	voicescribe_routers.HealthCheckRoutes(cfg, ginEngine, logger)
	voicescribe_routers.MetricsRoutes(ginEngine, logger, promRegistry)
	voicescribe_routers.SessionRoutes(cfg, ginEngine, logger, registry, gateway)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ginEngine,
	}

	utils.Go(ctx, func() {
		logger.Infof("%s listening on %s", cfg.Name, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server stopped: %v", err)
			stop()
		}
	})

	<-ctx.Done()
	logger.Info("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range registry.Active() {
		if _, err := registry.Stop(shutdownCtx, key); err != nil {
			logger.Errorf("finalizing session %s on shutdown: %v", key, err)
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http server shutdown: %v", err)
	}
}

// buildEngineRegistry registers every engine the config enables and marks
// the configured one primary.
func buildEngineRegistry(cfg *config.AppConfig, logger commons.Logger) (*internal_transcriber.Registry, error) {
	engines := internal_transcriber.NewRegistry()

	if cfg.TranscriberConfig.DeepgramKey != "" {
		dg, err := internal_transcriber_deepgram.NewDeepgramEngine(logger, cfg.TranscriberConfig.DeepgramKey, utils.Option{})
		if err != nil {
			return nil, err
		}
		engines.Register(dg)
	}
	if cfg.TranscriberConfig.WhisperEndpoint != "" {
		wh, err := internal_transcriber_whisper.NewWhisperEngine(logger, cfg.TranscriberConfig.WhisperEndpoint, 2*time.Minute, utils.Option{})
		if err != nil {
			return nil, err
		}
		engines.Register(wh)
	}

	if err := engines.SetPrimary(cfg.TranscriberConfig.Engine); err != nil {
		return nil, err
	}
	return engines, nil
}

func buildSink(cfg *config.AppConfig, logger commons.Logger) internal_type.TranscriptSink {
	writer := internal_sink.NewWriterSink(logger, cfg.SinkConfig.Dir)
	if cfg.SinkConfig.WebhookUrl == "" {
		return writer
	}
	return internal_sink.NewMultiSink(writer, internal_sink.NewWebhookSink(logger, cfg.SinkConfig.WebhookUrl, 15*time.Second))
}
