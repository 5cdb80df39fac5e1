// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_capture_gateway is the websocket capture subsystem:
// voice clients connect per participant and stream audio frames (opus or
// raw 16-bit PCM) which accumulate until a recording session drains them.
package internal_capture_gateway

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	opus "gopkg.in/hraban/opus.v2"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

const (
	// maxOpusFrameSamples covers a 120 ms frame at 48 kHz per channel.
	maxOpusFrameSamples = 5760

	defaultRate     = 48000
	defaultChannels = 2

	CodecOpus  = "opus"
	CodecPCM16 = "pcm16"
)

type track struct {
	pcm      bytes.Buffer // interleaved int16 little-endian
	rate     int
	channels int
}

type room struct {
	tracks map[string]*track
	live   map[string]int // participant -> open connection count
}

// Gateway accepts ingest connections and exposes the accumulated audio
// through the Capturer contract.
type Gateway struct {
	logger   commons.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room
}

// NewGateway creates an empty capture gateway.
func NewGateway(logger commons.Logger) *Gateway {
	return &Gateway{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms: make(map[string]*room),
	}
}

// HandleIngest upgrades one participant connection and accumulates its
// binary frames. Query parameters: key, participant, codec (opus|pcm16),
// rate, channels.
func (g *Gateway) HandleIngest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	participant := q.Get("participant")
	if key == "" || participant == "" {
		http.Error(w, "key and participant are required", http.StatusBadRequest)
		return
	}

	codec := q.Get("codec")
	if codec == "" {
		codec = CodecOpus
	}
	rate := intParam(q.Get("rate"), defaultRate)
	channels := intParam(q.Get("channels"), defaultChannels)
	if codec != CodecOpus && codec != CodecPCM16 {
		http.Error(w, fmt.Sprintf("unsupported codec %q", codec), http.StatusBadRequest)
		return
	}

	var decoder *opus.Decoder
	if codec == CodecOpus {
		dec, err := opus.NewDecoder(rate, channels)
		if err != nil {
			http.Error(w, fmt.Sprintf("opus decoder: %v", err), http.StatusInternalServerError)
			return
		}
		decoder = dec
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warnf("ingest upgrade failed for %s/%s: %v", key, participant, err)
		return
	}
	defer conn.Close()

	g.markLive(key, participant, +1)
	defer g.markLive(key, participant, -1)
	g.logger.Infof("ingest connected: room=%s participant=%s codec=%s rate=%d channels=%d", key, participant, codec, rate, channels)

	frame := make([]int16, maxOpusFrameSamples*channels)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warnf("ingest read error for %s/%s: %v", key, participant, err)
			}
			return
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}

		if decoder != nil {
			n, err := decoder.Decode(data, frame)
			if err != nil {
				g.logger.Warnf("dropping undecodable opus frame from %s/%s: %v", key, participant, err)
				continue
			}
			g.FeedPCM(key, participant, frame[:n*channels], rate, channels)
		} else {
			pcm := make([]int16, len(data)/2)
			for i := range pcm {
				pcm[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
			}
			g.FeedPCM(key, participant, pcm, rate, channels)
		}
	}
}

// FeedPCM appends decoded interleaved samples for one participant. The
// first frame fixes the track's rate and channel count.
func (g *Gateway) FeedPCM(key, participant string, pcm []int16, rate, channels int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.room(key)
	tr := rm.tracks[participant]
	if tr == nil {
		tr = &track{rate: rate, channels: channels}
		rm.tracks[participant] = tr
	}
	binary.Write(&tr.pcm, binary.LittleEndian, pcm)
}

func (g *Gateway) markLive(key, participant string, delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.room(key)
	rm.live[participant] += delta
	if rm.live[participant] <= 0 {
		delete(rm.live, participant)
	}
}

// room returns the room for key, creating it. Caller holds g.mu.
func (g *Gateway) room(key string) *room {
	rm := g.rooms[key]
	if rm == nil {
		rm = &room{
			tracks: make(map[string]*track),
			live:   make(map[string]int),
		}
		g.rooms[key] = rm
	}
	return rm
}

// Connect attaches a recording session to room key. The requester must be
// connected to the room (or have audio already accumulated there).
func (g *Gateway) Connect(ctx context.Context, key, requester string) (internal_type.CaptureHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[key]
	if rm == nil {
		return nil, fmt.Errorf("room %s: %w", key, internal_type.ErrNotInVoice)
	}
	if rm.live[requester] == 0 && rm.tracks[requester] == nil {
		return nil, fmt.Errorf("room %s requester %s: %w", key, requester, internal_type.ErrNotInVoice)
	}
	return &handle{gateway: g, key: key}, nil
}

type handle struct {
	gateway *Gateway
	key     string
	drained bool
}

// Drain renders each participant's accumulated PCM as a WAV stream, read
// from offset zero, exactly once per session.
func (h *handle) Drain(ctx context.Context) (map[string]io.Reader, error) {
	h.gateway.mu.Lock()
	defer h.gateway.mu.Unlock()
	if h.drained {
		return nil, fmt.Errorf("capture for %s already drained", h.key)
	}
	h.drained = true

	rm := h.gateway.rooms[h.key]
	if rm == nil {
		return map[string]io.Reader{}, nil
	}
	readers := make(map[string]io.Reader, len(rm.tracks))
	for participant, tr := range rm.tracks {
		data := tr.pcm.Bytes()
		pcm := make([]int16, len(data)/2)
		for i := range pcm {
			pcm[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		readers[participant] = bytes.NewReader(internal_audio.EncodeWAV16(pcm, tr.rate, tr.channels))
	}
	return readers, nil
}

// Close resets the room's accumulated tracks; live connections keep going
// and start accumulating for the next session.
func (h *handle) Close(ctx context.Context) error {
	h.gateway.mu.Lock()
	defer h.gateway.mu.Unlock()
	rm := h.gateway.rooms[h.key]
	if rm == nil {
		return nil
	}
	rm.tracks = make(map[string]*track)
	if len(rm.live) == 0 {
		delete(h.gateway.rooms, h.key)
	}
	return nil
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
