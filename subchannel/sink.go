/*
NAME
  sink.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package subchannel defines the sub-channel sink contract that the
// MP2 (DAB) and superframe (DAB+) audio paths implement, mirroring
// SubchannelSink/SubchannelSinkObserver: a sink absorbs one
// sub-channel's worth of transport bytes per 24ms frame and reports
// decoded audio and PAD data back out-of-band.
package subchannel

// FPADLen is the fixed length in bytes of the F-PAD field trailing
// every audio frame, mirroring FPAD_LEN.
const FPADLen = 2

// FrameMS is the playout duration of one sub-channel frame.
const FrameMS = 24

// Observer receives a Sink's decode results. Implementations must not
// block, since Feed runs on the transport hot path.
type Observer interface {
	// FormatChange reports a human-readable summary of the current
	// audio format once parsed (and again on any change).
	FormatChange(format string)
	// StartAudio is called once the decoder knows its output PCM
	// shape, before the first PutAudio.
	StartAudio(sampleRate, channels int, float32 bool)
	// PutAudio delivers one frame's decoded PCM bytes.
	PutAudio(data []byte)
	// ProcessPAD delivers one frame's PAD bytes, exactLen marking
	// whether xpad's announced length must exactly match len(xpad).
	ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte)
}

// Sink absorbs one sub-channel's raw transport bytes per 24ms frame,
// polymorphic over the MP2 (DAB) and superframe (DAB+) encodings.
type Sink interface {
	Feed(data []byte)
}
