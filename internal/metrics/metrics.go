// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_metrics holds the Prometheus instruments for the
// recording pipeline.
package internal_metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every instrument the pipeline reports to.
type Metrics struct {
	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
	SessionsFailed  prometheus.Counter

	ParticipantsProcessed prometheus.Counter
	ParticipantsDropped   *prometheus.CounterVec

	Transcriptions  *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	AudioDuration   prometheus.Histogram
}

// NewMetrics registers the pipeline instruments on reg. Passing a fresh
// registry keeps tests independent of the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_sessions_started_total",
			Help: "Recording sessions started.",
		}),
		SessionsStopped: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_sessions_stopped_total",
			Help: "Recording sessions stopped and finalized.",
		}),
		SessionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_sessions_failed_total",
			Help: "Recording sessions that failed during finalization.",
		}),
		ParticipantsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_participants_processed_total",
			Help: "Participant streams that produced transcript segments.",
		}),
		ParticipantsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicescribe_participants_dropped_total",
			Help: "Participant streams dropped from the transcript.",
		}, []string{"stage"}),
		Transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicescribe_transcriptions_total",
			Help: "Transcription engine calls by engine and outcome.",
		}, []string{"engine", "outcome"}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicescribe_session_duration_seconds",
			Help:    "Wall-clock length of recording sessions.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicescribe_audio_duration_seconds",
			Help:    "Normalized audio length per participant stream.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
		}),
	}
}
