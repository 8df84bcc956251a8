/*
NAME
  mp2.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package mp2 implements the DAB (non-Plus) sub-channel sink: a
// frame-by-frame MPEG-1/2 Audio Layer II decoder feed, mirroring
// MP2Decoder. The bitstream decode itself (mpg123_framebyframe_next/
// _decode in the original) is an explicit black box here, treating the
// MPEG Layer II audio codec as a black-box decoder with a defined
// feed/callback contract — this package owns only the DAB-specific
// periphery around that decode: CRC-length derivation, F-PAD/X-PAD
// splitting and the format-change summary string.
package mp2

import (
	"fmt"

	"github.com/dablin-go/dablin/subchannel"
)

// FPADLen is the length in bytes of the F-PAD field trailing every
// Layer II audio frame, mirroring FPAD_LEN.
const FPADLen = subchannel.FPADLen

// FrameInfo describes one decoded Layer II frame's format, mirroring
// the fields MP2Decoder::ProcessFormat reads off mpg123_info/
// mpg123_getformat.
type FrameInfo struct {
	// MPEG1 is true for MPEG Version 1 frames, false for MPEG-2 (LSF).
	MPEG1 bool
	// Layer is the MPEG audio layer in use; DAB only ever carries 2.
	Layer int
	// SampleRate is the output PCM sample rate in Hz.
	SampleRate int
	// Mono is true for single-channel output.
	Mono bool
	// BitrateKbps is the frame's coded bitrate.
	BitrateKbps int
}

func (f FrameInfo) channels() int {
	if f.Mono {
		return 1
	}
	return 2
}

func (f FrameInfo) mode() string {
	if f.Mono {
		return "mono"
	}
	return "stereo"
}

func (f FrameInfo) version() string {
	if f.MPEG1 {
		return "1.0"
	}
	return "2.0"
}

// Codec is the black-box, frame-by-frame Layer II decoder a Sink feeds
// raw sub-channel bytes to, mirroring the subset of libmpg123's
// frame-by-frame API MP2Decoder::Feed/GetFrame drive directly:
// mpg123_feed, mpg123_framebyframe_next, mpg123_framedata and
// mpg123_framebyframe_decode.
type Codec interface {
	// Feed appends raw sub-channel bytes to the decoder's internal
	// buffer, mirroring mpg123_feed.
	Feed(data []byte) error
	// NextFrame advances to the next complete Layer II frame found in
	// the fed bytes. needMore is true when no full frame is available
	// yet (MPG123_NEED_MORE); newFormat is true the first time a frame
	// is parsed and whenever the stream's format changes
	// (MPG123_NEW_FORMAT), in which case Format must be called before
	// FrameBody/Decode.
	NextFrame() (needMore, newFormat bool, err error)
	// Format returns the current frame's format, valid after any
	// NextFrame call that yielded a frame (the Sink reads it for every
	// frame), mirroring mpg123_info/mpg123_getformat.
	Format() (FrameInfo, error)
	// FrameBody returns the current frame's raw compressed body bytes
	// (not yet decoded to PCM), mirroring mpg123_framedata.
	FrameBody() []byte
	// Decode renders the current frame to interleaved float32 PCM
	// bytes, mirroring mpg123_framebyframe_decode.
	Decode() ([]byte, error)
}

// Sink feeds raw DAB sub-channel bytes through a Codec, extracting PAD
// from each frame body and reporting decode results through a
// subchannel.Observer, mirroring MP2Decoder.
type Sink struct {
	codec    Codec
	observer subchannel.Observer

	started bool
}

// New returns a Sink driving codec and reporting to observer.
func New(codec Codec, observer subchannel.Observer) *Sink {
	return &Sink{codec: codec, observer: observer}
}

// Feed implements subchannel.Sink, mirroring MP2Decoder::Feed: push
// data into the codec, then drain every complete frame it now yields.
func (s *Sink) Feed(data []byte) {
	if err := s.codec.Feed(data); err != nil {
		return
	}
	for {
		needMore, newFormat, err := s.codec.NextFrame()
		if err != nil || needMore {
			return
		}
		if newFormat {
			if err := s.processFormat(); err != nil {
				return
			}
		}
		s.processFrame()
		pcm, err := s.codec.Decode()
		if err != nil {
			return
		}
		s.observer.PutAudio(pcm)
	}
}

// processFormat reports a format-change summary and starts audio
// output, mirroring MP2Decoder::ProcessFormat.
func (s *Sink) processFormat() error {
	info, err := s.codec.Format()
	if err != nil {
		return err
	}
	s.observer.FormatChange(fmt.Sprintf(
		"MPEG %s Layer %d, %d Hz %s @ %d kbit/s",
		info.version(), info.Layer, info.SampleRate, info.mode(), info.BitrateKbps))
	s.observer.StartAudio(info.SampleRate, info.channels(), true)
	s.started = true
	return nil
}

// crcLen returns the length in bytes of the error-protection CRC gap
// preceding the F-PAD trailer, mirroring the bitrate-dependent
// threshold MP2Decoder::ProcessFormat derives from mpg123_info: 2
// bytes below {56 kbit/s mono, 112 kbit/s stereo} for MPEG-1, 4 bytes
// otherwise (MPEG-2, or MPEG-1 at or above that threshold).
func crcLen(info FrameInfo) int {
	if info.MPEG1 {
		threshold := 112
		if info.Mono {
			threshold = 56
		}
		if info.BitrateKbps < threshold {
			return 2
		}
	}
	return 4
}

// processFrame extracts X-PAD/F-PAD from the current frame's raw body
// and reports it, mirroring the ProcessPAD call inside
// MP2Decoder::GetFrame: the whole body minus FPAD_LEN and the CRC gap
// is forwarded as X-PAD with no exact-length guarantee, since the
// later DAB+/DAB-B convention (whole-frame-minus-gap) supersedes an
// earlier fixed-offset copy.
func (s *Sink) processFrame() {
	info, err := s.codec.Format()
	if err != nil {
		return
	}
	body := s.codec.FrameBody()
	gap := crcLen(info)
	if len(body) < FPADLen+gap {
		return
	}

	xpadEnd := len(body) - FPADLen
	xpad := body[:xpadEnd-gap]
	var fpad [2]byte
	copy(fpad[:], body[xpadEnd:])

	s.observer.ProcessPAD(xpad, false, fpad)
}
