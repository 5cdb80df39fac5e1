// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// decodeWAV parses a RIFF/WAVE container into interleaved float64 samples in
// [-1, 1]. It walks the chunk list rather than assuming the 44-byte layout,
// since capture subsystems pad or reorder chunks. Supported sample formats:
// PCM 8/16/24/32-bit integer and IEEE 32/64-bit float, any channel count.
func decodeWAV(data []byte) (samples []float64, channels, rate int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		haveFmt   bool
		format    uint16
		bits      int
		audioData []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			// Truncated trailing chunk: keep what fits for data, reject
			// anything else.
			if chunkID == "data" {
				chunkSize = len(data) - body
			} else {
				return nil, 0, 0, fmt.Errorf("truncated %q chunk", chunkID)
			}
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format == wavFormatExtensible && chunkSize >= 40 {
				// The real format tag lives in the extensible subformat GUID.
				format = binary.LittleEndian.Uint16(data[body+24 : body+26])
			}
			haveFmt = true
		case "data":
			audioData = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return nil, 0, 0, fmt.Errorf("missing fmt chunk")
	}
	if audioData == nil {
		return nil, 0, 0, fmt.Errorf("missing data chunk")
	}
	if channels < 1 {
		return nil, 0, 0, fmt.Errorf("invalid channel count: %d", channels)
	}
	if rate <= 0 {
		return nil, 0, 0, fmt.Errorf("invalid sample rate: %d", rate)
	}

	switch {
	case format == wavFormatPCM && bits == 8:
		samples = make([]float64, len(audioData))
		for i, b := range audioData {
			samples[i] = (float64(b) - 128) / 128
		}
	case format == wavFormatPCM && bits == 16:
		n := len(audioData) / 2
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(audioData[i*2:]))
			samples[i] = float64(v) / 32768
		}
	case format == wavFormatPCM && bits == 24:
		n := len(audioData) / 3
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			b := audioData[i*3 : i*3+3]
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF) // sign extend
			}
			samples[i] = float64(v) / 8388608
		}
	case format == wavFormatPCM && bits == 32:
		n := len(audioData) / 4
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(audioData[i*4:]))
			samples[i] = float64(v) / 2147483648
		}
	case format == wavFormatIEEEFloat && bits == 32:
		n := len(audioData) / 4
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(audioData[i*4:])))
		}
	case format == wavFormatIEEEFloat && bits == 64:
		n := len(audioData) / 8
		samples = make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(audioData[i*8:]))
		}
	default:
		return nil, 0, 0, fmt.Errorf("unsupported sample format: tag=%d bits=%d", format, bits)
	}

	// Drop a trailing partial frame instead of failing the whole stream.
	if rem := len(samples) % channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}
	return samples, channels, rate, nil
}

// EncodeWAV16 renders interleaved 16-bit PCM samples as a WAV container.
func EncodeWAV16(samples []int16, rate, channels int) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2
	byteRate := rate * channels * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
