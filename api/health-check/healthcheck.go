// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package healthcheck_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voicescribe/voicescribe/config"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

type HealthCheckApi interface {
	Readiness(c *gin.Context)
	Healthz(c *gin.Context)
}

type healthCheckApi struct {
	cfg    *config.AppConfig
	logger commons.Logger
}

func New(cfg *config.AppConfig, logger commons.Logger) HealthCheckApi {
	return &healthCheckApi{cfg: cfg, logger: logger}
}

func (a *healthCheckApi) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": a.cfg.Name})
}

func (a *healthCheckApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": a.cfg.Version})
}
