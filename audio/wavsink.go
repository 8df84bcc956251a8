/*
NAME
  wavsink.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormat = 1 // WAVE_FORMAT_PCM; dablin's sub-channel sinks always hand back float32, re-quantised to 16-bit here.

// WriteSeeker is the io.WriteSeeker a WAVSink records into; callers
// pass an *os.File for a real recording.
type WriteSeeker = io.WriteSeeker

// WAVSink records decoded PCM to a WAV file via go-audio/wav.
type WAVSink struct {
	ws  WriteSeeker
	enc *wav.Encoder
	buf *audio.IntBuffer
}

// NewWAVSink returns a WAVSink recording into ws.
func NewWAVSink(ws WriteSeeker) *WAVSink { return &WAVSink{ws: ws} }

func (s *WAVSink) Open(sampleRate, channels int) error {
	if s.enc != nil {
		if err := s.enc.Close(); err != nil {
			return err
		}
	}
	const bitsPerSample = 16
	s.enc = wav.NewEncoder(s.ws, sampleRate, bitsPerSample, channels, wavFormat)
	s.buf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitsPerSample,
	}
	return nil
}

// Write re-quantises the sub-channel sinks' interleaved float32 PCM to
// 16-bit signed integer samples and encodes them as one WAV chunk.
func (s *WAVSink) Write(pcm []byte) (int, error) {
	if s.enc == nil {
		return 0, fmt.Errorf("%swavsink: Write called before Open", pkg)
	}
	if len(pcm)%4 != 0 {
		return 0, fmt.Errorf("%swavsink: PCM length %d not a multiple of 4", pkg, len(pcm))
	}
	n := len(pcm) / 4
	data := make([]int, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(pcm[i*4:])
		f := math.Float32frombits(bits)
		data[i] = int(f * 32767)
	}
	s.buf.Data = data
	if err := s.enc.Write(s.buf); err != nil {
		return 0, err
	}
	return len(pcm), nil
}

func (s *WAVSink) Close() error {
	if s.enc == nil {
		return nil
	}
	return s.enc.Close()
}

// StartThreshold returns the SDL/buffered-sink fraction (50%) since a
// file sink has no playback-underflow concern, but keeps the same
// priming behaviour as any other buffered sink for consistency.
func (s *WAVSink) StartThreshold() float64 { return 0.5 }
