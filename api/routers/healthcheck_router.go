// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package voicescribe_routers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthCheckApi "github.com/voicescribe/voicescribe/api/health-check"
	"github.com/voicescribe/voicescribe/config"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

func HealthCheckRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	hcApi := healthCheckApi.New(cfg, logger)
	apiv1 := engine.Group("")
	{
		apiv1.GET("/readiness/", hcApi.Readiness)
		apiv1.GET("/healthz/", hcApi.Healthz)
	}
}

func MetricsRoutes(engine *gin.Engine, logger commons.Logger, registry *prometheus.Registry) {
	logger.Info("Internal MetricsRoutes added to engine.")
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
