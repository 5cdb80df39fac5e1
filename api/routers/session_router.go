// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package voicescribe_routers

import (
	"github.com/gin-gonic/gin"

	recordApi "github.com/voicescribe/voicescribe/api/record"
	"github.com/voicescribe/voicescribe/config"
	internal_capture_gateway "github.com/voicescribe/voicescribe/internal/capture/gateway"
	internal_session "github.com/voicescribe/voicescribe/internal/session"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

func SessionRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, registry *internal_session.Registry, gateway *internal_capture_gateway.Gateway) {
	logger.Info("Internal SessionRoutes added to engine.")
	rApi := recordApi.NewRecordApi(cfg, logger, registry)
	apiv1 := engine.Group("/v1")
	{
		apiv1.POST("/sessions/:key/start", rApi.Start)
		apiv1.POST("/sessions/:key/stop", rApi.Stop)
		apiv1.GET("/sessions", rApi.List)
		apiv1.GET("/ingest", gin.WrapF(gateway.HandleIngest))
	}
}
