// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package record_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voicescribe/voicescribe/config"
	internal_session "github.com/voicescribe/voicescribe/internal/session"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// RecordApi is the http control surface for recording sessions.
type RecordApi interface {
	Start(c *gin.Context)
	Stop(c *gin.Context)
	List(c *gin.Context)
}

type recordApi struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	registry *internal_session.Registry
}

func NewRecordApi(cfg *config.AppConfig, logger commons.Logger, registry *internal_session.Registry) RecordApi {
	return &recordApi{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
	}
}

type startRequest struct {
	Requester string `json:"requester" binding:"required"`
}

// Start begins a recording session for the key in the path.
func (a *recordApi) Start(c *gin.Context) {
	key := c.Param("key")
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requester is required"})
		return
	}

	err := a.registry.Start(c.Request.Context(), key, req.Requester)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "recording", "key": key})
	case errors.Is(err, internal_session.ErrAlreadyRecording):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, internal_type.ErrNotInVoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		a.logger.Errorf("start recording for %s failed: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to start recording"})
	}
}

// Stop ends a recording session and waits for the transcript hand-off.
func (a *recordApi) Stop(c *gin.Context) {
	key := c.Param("key")

	report, err := a.registry.Stop(c.Request.Context(), key)
	var capErr *internal_session.CaptureError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "stopped", "report": report})
	case errors.Is(err, internal_session.ErrNotRecording):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &capErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
	default:
		a.logger.Errorf("stop recording for %s failed: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
	}
}

// List returns every key with a recording in progress.
func (a *recordApi) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"active": a.registry.Active()})
}
