/*
NAME
  devicesink.go

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
	"time"

	"github.com/ausocean/utils/pool"
)

// Device is the minimal platform audio-output device a DeviceSink
// drives: configure the hardware for a format and push interleaved
// PCM to it. A real binding (ALSA, CoreAudio, WASAPI) implements it.
type Device interface {
	Configure(sampleRate, channels int) error
	Write(pcm []byte) (int, error)
	Close() error
}

const (
	deviceChunkSize = 4096
	deviceRBLen     = 64
	deviceRBTimeout = 200 * time.Millisecond
)

// DeviceSink stages decoded PCM through a pool.Buffer ring and an
// output-thread goroutine that pulls from it and writes to the
// platform Device, mirroring device/alsa's own pool.Buffer-staged
// pull loop (there used on the capture side; here on playback).
type DeviceSink struct {
	dev  Device
	buf  *pool.Buffer
	done chan struct{}
}

// NewDeviceSink returns a DeviceSink driving dev.
func NewDeviceSink(dev Device) *DeviceSink { return &DeviceSink{dev: dev} }

func (s *DeviceSink) Open(sampleRate, channels int) error {
	if s.buf != nil {
		s.Close()
	}
	if err := s.dev.Configure(sampleRate, channels); err != nil {
		return err
	}
	s.buf = pool.NewBuffer(deviceRBLen, deviceChunkSize, deviceRBTimeout)
	s.done = make(chan struct{})
	go s.outputLoop()
	return nil
}

// Write stages pcm for the output goroutine; it chunks to
// deviceChunkSize since pool.Buffer deals in fixed-size chunks.
func (s *DeviceSink) Write(pcm []byte) (int, error) {
	if s.buf == nil {
		return 0, nil
	}
	written := 0
	for i := 0; i < len(pcm); i += deviceChunkSize {
		end := i + deviceChunkSize
		if end > len(pcm) {
			end = len(pcm)
		}
		n, err := s.buf.Write(pcm[i:end])
		written += n
		if err != nil && err != pool.ErrDropped {
			return written, err
		}
	}
	return written, nil
}

// outputLoop runs on its own goroutine, pulling chunks from the pool
// buffer and writing them to the platform device, mirroring the output
// thread the original dedicates to platform devices that pull samples
// asynchronously.
func (s *DeviceSink) outputLoop() {
	for {
		select {
		case <-s.done:
			return
		default:
		}
		chunk, err := s.buf.Next(deviceRBTimeout)
		if err != nil {
			continue
		}
		s.dev.Write(chunk.Bytes())
		chunk.Close()
	}
}

func (s *DeviceSink) Close() error {
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.buf != nil {
		s.buf.Close()
		s.buf = nil
	}
	return s.dev.Close()
}

// StartThreshold returns the platform-device fraction (25%): a real
// device has its own small hardware buffer, so the pump's ring buffer
// needs less priming before the underflow risk is acceptable.
func (s *DeviceSink) StartThreshold() float64 { return 0.25 }
