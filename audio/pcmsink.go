/*
NAME
  pcmsink.go

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

import "io"

// PCMSink writes raw interleaved float32 PCM straight to an io.Writer
// (typically os.Stdout), the simplest of dablin's audio outputs and
// the one with no internal buffer of its own to prime, so it starts
// at the lowest of the two start thresholds.
type PCMSink struct {
	w io.Writer
}

// NewPCMSink returns a PCMSink writing to w.
func NewPCMSink(w io.Writer) *PCMSink { return &PCMSink{w: w} }

func (s *PCMSink) Open(sampleRate, channels int) error { return nil }

func (s *PCMSink) Write(pcm []byte) (int, error) { return s.w.Write(pcm) }

func (s *PCMSink) Close() error { return nil }

// StartThreshold returns the platform-device fraction (25%) since a
// plain stream writer has no device-level buffering of its own to
// smooth over an early underflow.
func (s *PCMSink) StartThreshold() float64 { return 0.25 }
