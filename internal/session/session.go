// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_session owns the per-key recording session lifecycle:
// start attaches a capture, stop drains it and runs every participant
// stream through the normalize/transcribe/assemble pipeline.
package internal_session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_metrics "github.com/voicescribe/voicescribe/internal/metrics"
	internal_transcriber "github.com/voicescribe/voicescribe/internal/transcriber"
	internal_transcript "github.com/voicescribe/voicescribe/internal/transcript"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// ErrAlreadyRecording is returned by Start when the key already has an
// active session.
var ErrAlreadyRecording = errors.New("a recording session is already active for this key")

// ErrNotRecording is returned by Stop when the key has no active session.
var ErrNotRecording = errors.New("no recording session is active for this key")

// CaptureError is a session-fatal capture subsystem failure during stop.
// The session still ends and its key is released, but no transcript exists.
type CaptureError struct {
	Op  string // "drain" or "close"
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s failed: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

type sessionState int

const (
	stateConnecting sessionState = iota
	stateRecording
	stateFinalizing
)

type session struct {
	key       string
	requester string
	startedAt time.Time
	handle    internal_type.CaptureHandle
	state     sessionState
}

// Config carries the pipeline knobs the registry applies to every session.
type Config struct {
	// TargetRate is the canonical sample rate handed to the engine.
	TargetRate int
	// MinDuration is the silence-padding floor for short streams.
	MinDuration time.Duration
	// MaxWorkers bounds concurrent participant pipelines during stop.
	MaxWorkers int
}

// Registry tracks at most one recording session per key and drives the
// finalization pipeline when a session stops.
type Registry struct {
	logger   commons.Logger
	capturer internal_type.Capturer
	adapter  *internal_transcriber.Adapter
	resolver internal_type.SpeakerResolver
	sink     internal_type.TranscriptSink
	metrics  *internal_metrics.Metrics
	cfg      Config

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry wires the session registry. All collaborators are required.
func NewRegistry(
	logger commons.Logger,
	capturer internal_type.Capturer,
	adapter *internal_transcriber.Adapter,
	resolver internal_type.SpeakerResolver,
	sink internal_type.TranscriptSink,
	metrics *internal_metrics.Metrics,
	cfg Config,
) *Registry {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	return &Registry{
		logger:   logger,
		capturer: capturer,
		adapter:  adapter,
		resolver: resolver,
		sink:     sink,
		metrics:  metrics,
		cfg:      cfg,
		sessions: make(map[string]*session),
	}
}

// Start begins recording for key on behalf of requester. The key is
// reserved before the capture connect so concurrent starts on the same key
// race for a single slot; the connect itself runs outside the registry
// lock.
func (r *Registry) Start(ctx context.Context, key, requester string) error {
	s := &session{key: key, requester: requester, state: stateConnecting}

	r.mu.Lock()
	if _, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return fmt.Errorf("session %s: %w", key, ErrAlreadyRecording)
	}
	r.sessions[key] = s
	r.mu.Unlock()

	handle, err := r.capturer.Connect(ctx, key, requester)
	if err != nil {
		r.mu.Lock()
		delete(r.sessions, key)
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	s.handle = handle
	s.startedAt = time.Now().UTC()
	s.state = stateRecording
	r.mu.Unlock()

	r.metrics.SessionsStarted.Inc()
	r.logger.Infof("recording started: key=%s requester=%s", key, requester)
	return nil
}

// Stop ends the session for key, runs the full finalization pipeline and
// publishes the result to the sink. The call is synchronous: when it
// returns, the transcript (or the failure notice) has been handed off and
// the key is free again.
func (r *Registry) Stop(ctx context.Context, key string) (internal_type.Report, error) {
	r.mu.Lock()
	s, ok := r.sessions[key]
	if !ok || s.state != stateRecording {
		r.mu.Unlock()
		return internal_type.Report{}, fmt.Errorf("session %s: %w", key, ErrNotRecording)
	}
	s.state = stateFinalizing
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.sessions, key)
		r.mu.Unlock()
	}()

	report := internal_type.Report{
		SessionKey: key,
		StartedAt:  s.startedAt,
		StoppedAt:  time.Now().UTC(),
	}
	r.metrics.SessionDuration.Observe(report.StoppedAt.Sub(report.StartedAt).Seconds())

	streams, drainErr := s.handle.Drain(ctx)
	if drainErr != nil {
		s.handle.Close(ctx)
		return report, r.fail(ctx, report, &CaptureError{Op: "drain", Err: drainErr})
	}
	if closeErr := s.handle.Close(ctx); closeErr != nil {
		return report, r.fail(ctx, report, &CaptureError{Op: "close", Err: closeErr})
	}

	perParticipant := r.runPipelines(ctx, streams, &report)
	lines := internal_transcript.Assemble(ctx, perParticipant, r.resolver)

	r.metrics.SessionsStopped.Inc()
	r.logger.Infof("recording stopped: key=%s participants=%d failures=%d lines=%d",
		key, len(report.Participants), len(report.Failures), len(lines))

	if err := r.sink.Publish(ctx, lines, report); err != nil {
		return report, fmt.Errorf("publishing transcript for %s: %w", key, err)
	}
	return report, nil
}

// fail publishes a failure notice for a session-fatal capture error and
// returns the error. The sink sees every session outcome, fatal included.
func (r *Registry) fail(ctx context.Context, report internal_type.Report, capErr *CaptureError) error {
	report.Fatal = capErr.Error()
	r.metrics.SessionsFailed.Inc()
	r.logger.Errorf("recording failed: key=%s err=%v", report.SessionKey, capErr)
	if err := r.sink.Publish(ctx, nil, report); err != nil {
		r.logger.Errorf("failure notice for %s not delivered: %v", report.SessionKey, err)
	}
	return capErr
}

// runPipelines transcribes every participant stream with bounded
// concurrency. A participant failure is contained: it is recorded on the
// report and the remaining participants keep going.
func (r *Registry) runPipelines(ctx context.Context, streams map[string]io.Reader, report *internal_type.Report) map[string][]internal_type.WordSegment {
	var (
		mu             sync.Mutex
		perParticipant = make(map[string][]internal_type.WordSegment, len(streams))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxWorkers)
	for participant, stream := range streams {
		participant, stream := participant, stream
		g.Go(func() error {
			segments, failure := r.runPipeline(gctx, participant, stream)
			mu.Lock()
			defer mu.Unlock()
			if failure != nil {
				report.Failures = append(report.Failures, *failure)
				r.metrics.ParticipantsDropped.WithLabelValues(failure.Stage).Inc()
				return nil
			}
			report.Participants = append(report.Participants, participant)
			perParticipant[participant] = segments
			r.metrics.ParticipantsProcessed.Inc()
			return nil
		})
	}
	g.Wait()

	sort.Strings(report.Participants)
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Participant < report.Failures[j].Participant
	})
	return perParticipant
}

// runPipeline is the per-participant normalize/transcribe path. An
// undecodable stream is retried raw through the staged-file path before it
// is given up on.
func (r *Registry) runPipeline(ctx context.Context, participant string, stream io.Reader) ([]internal_type.WordSegment, *internal_type.ParticipantFailure) {
	raw, err := io.ReadAll(stream)
	if err != nil {
		return nil, &internal_type.ParticipantFailure{
			Participant: participant,
			Stage:       "decode",
			Reason:      fmt.Sprintf("reading captured audio: %v", err),
		}
	}

	buf, err := internal_audio.Normalize(raw, r.cfg.TargetRate, r.cfg.MinDuration)
	if err != nil {
		var decodeErr *internal_audio.AudioDecodeError
		if !errors.As(err, &decodeErr) {
			return nil, &internal_type.ParticipantFailure{
				Participant: participant,
				Stage:       "decode",
				Reason:      err.Error(),
			}
		}
		r.logger.Warnf("audio for %s is undecodable, submitting raw: %v", participant, err)
		segments, rawErr := r.adapter.TranscribeRaw(ctx, participant, decodeErr.Raw)
		if rawErr != nil {
			r.metrics.Transcriptions.WithLabelValues(r.adapter.Engine(), "error").Inc()
			return nil, &internal_type.ParticipantFailure{
				Participant: participant,
				Stage:       "decode",
				Reason:      fmt.Sprintf("%v (raw fallback: %v)", err, rawErr),
			}
		}
		r.metrics.Transcriptions.WithLabelValues(r.adapter.Engine(), "ok").Inc()
		return segments, nil
	}

	r.metrics.AudioDuration.Observe(buf.Duration().Seconds())
	segments, err := r.adapter.Transcribe(ctx, participant, buf)
	if err != nil {
		r.metrics.Transcriptions.WithLabelValues(r.adapter.Engine(), "error").Inc()
		return nil, &internal_type.ParticipantFailure{
			Participant: participant,
			Stage:       "transcribe",
			Reason:      err.Error(),
		}
	}
	r.metrics.Transcriptions.WithLabelValues(r.adapter.Engine(), "ok").Inc()
	return segments, nil
}

// Active returns the keys with a recording in progress, sorted.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.sessions))
	for key, s := range r.sessions {
		if s.state == stateRecording {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
