/*
NAME
  pump.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package audio implements the audio pump: it owns the currently
// selected sub-channel sink (MP2 or superframe), the PAD decoder, the
// staging ring buffer and the pluggable output Sink, pacing
// sub-channel bytes into the decode chain at real time, mirroring
// EnsemblePlayer's dec/out pair and its per-frame pacing loop.
package audio

import (
	"sync"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/pad"
	"github.com/dablin-go/dablin/ringbuffer"
	"github.com/dablin-go/dablin/subchannel"
)

const pkg = "audio: "

// frameDuration is the playout duration of one sub-channel frame; the
// pump paces Feed calls to this rate.
const frameDuration = time.Duration(subchannel.FrameMS) * time.Millisecond

// bytesPerSample is the PCM sample width the sub-channel sinks always
// produce: interleaved float32.
const bytesPerSample = 4

// ringBufferDuration is the fixed size, in playout time, of the pump's
// staging ring buffer, allocated fresh on every format change.
const ringBufferDuration = 500 * time.Millisecond

// Sink is a pluggable audio output: PCM-to-stdout, a WAV file, or a
// platform playback device, mirroring AudioOutput. StartThreshold is
// the fraction of the pump's ring buffer that must fill before this
// sink is unmuted (50% for a buffered/SDL-style sink, 25% for a
// platform device with its own small internal buffer).
type Sink interface {
	Open(sampleRate, channels int) error
	Write(pcm []byte) (int, error)
	Close() error
	StartThreshold() float64
}

// CodecFactory constructs the black-box per-encoding decoder a newly
// selected audio service's sub-channel sink wraps; dablin supplies the
// sub-channel multiplexing/PAD-extraction logic in subchannel/mp2 and
// subchannel/superframe, callers supply the actual bitstream decoders.
type CodecFactory struct {
	NewMP2        func() mp2Codec
	NewSuperFrame func() superFrameCodec
}

// Pump paces one selected audio service's sub-channel bytes into its
// decode chain at real time, and stages decoded PCM through a ring
// buffer into a pluggable output Sink, mirroring EnsemblePlayer's
// ProcessFrame/SetAudioService pair.
type Pump struct {
	logger   logging.Logger
	sink     Sink
	codecs   CodecFactory
	padDec   *pad.Decoder
	catchUp  bool // if true, a late frame never resyncs the pacing schedule.

	mu      sync.Mutex
	service ensemble.AudioService
	scSink  subchannel.Sink
	ring    *ringbuffer.Buffer
	muted   bool
	sr, ch  int

	scheduled time.Time

	// onFormatChange, if set, is notified of every format_changed
	// summary string alongside the pump's own logging, letting a
	// caller (the receiver) surface it as an observer event.
	onFormatChange func(string)
	// onPADReset, if set, is notified every time SetAudioService resets
	// the pump's PAD decoder (on every selection change, including to
	// none), mirroring the original's reset_pad() observer event.
	onPADReset func()
}

// SetFormatObserver installs (or, with nil, removes) the callback
// notified of every audio format change.
func (p *Pump) SetFormatObserver(f func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFormatChange = f
}

// SetPADResetObserver installs (or, with nil, removes) the callback
// notified every time the pump's PAD decoder is reset.
func (p *Pump) SetPADResetObserver(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPADReset = f
}

// New returns a Pump reporting PAD events through padObserver (a
// pad.Decoder is created internally, owned by the pump and reset on
// every SetAudioService) and staging
// decoded PCM through sink.
func New(sink Sink, codecs CodecFactory, padObserver pad.Observer, catchUp bool, l logging.Logger) *Pump {
	p := &Pump{
		logger:  l,
		sink:    sink,
		codecs:  codecs,
		catchUp: catchUp,
		service: ensemble.AudioService{SubChID: ensemble.SubChIDNone},
	}
	p.padDec = pad.New(padObserver, false, l)
	return p
}

// SetAudioService selects a new audio service, idempotent if service
// already matches the current selection. subChanBytesPerFrame is the
// sub-channel's announced per-24ms byte rate (needed to size a DAB+
// superframe), mirroring EnsemblePlayer::SetAudioService.
func (p *Pump) SetAudioService(service ensemble.AudioService, subChanBytesPerFrame int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.service == service {
		return
	}
	p.service = service
	p.teardownLocked()
	p.padDec.Reset()
	if p.onPADReset != nil {
		p.onPADReset()
	}

	if service.None() {
		return
	}

	if service.DABPlus {
		p.scSink = newSuperFrameSink(p.codecs.NewSuperFrame(), p, subChanBytesPerFrame)
	} else {
		p.scSink = newMP2Sink(p.codecs.NewMP2(), p)
	}
	p.scheduled = time.Time{}
}

func (p *Pump) teardownLocked() {
	if p.scSink == nil {
		return
	}
	p.scSink = nil
	p.ring = nil
	p.muted = true
	if p.sink != nil {
		if err := p.sink.Close(); err != nil && p.logger != nil {
			p.logger.Warning(pkg+"error closing audio sink", "error", err.Error())
		}
	}
}

// Feed paces and delivers one frame's worth of raw sub-channel bytes
// into the selected sink's decode chain, mirroring the audio pump's
// per-frame pacing loop: sleep until the scheduled frame time, advance
// the schedule by one frame, resync to the current clock if arrival
// was more than one frame late and catch-up is disabled.
func (p *Pump) Feed(data []byte) {
	now := time.Now()
	p.mu.Lock()
	if p.scheduled.IsZero() {
		p.scheduled = now
	}
	wait := p.scheduled.Sub(now)
	late := -wait
	p.scheduled = p.scheduled.Add(frameDuration)
	if late > frameDuration && !p.catchUp {
		p.scheduled = now.Add(frameDuration)
	}
	scSink := p.scSink
	p.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
	if scSink != nil {
		scSink.Feed(data)
	}
}

// formatChange implements subchannel.Observer.
func (p *Pump) formatChange(format string) {
	if p.logger != nil {
		p.logger.Info(pkg+"audio format", "format", format)
	}
	p.mu.Lock()
	onFormatChange := p.onFormatChange
	p.mu.Unlock()
	if onFormatChange != nil {
		onFormatChange(format)
	}
}

// startAudio implements subchannel.Observer: allocates a fresh ring
// buffer sized for ringBufferDuration and re-opens the output sink.
func (p *Pump) startAudio(sampleRate, channels int, float32 bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sr, p.ch = sampleRate, channels
	bytesPerSec := sampleRate * channels * bytesPerSample
	size := int(float64(bytesPerSec) * ringBufferDuration.Seconds())
	p.ring = ringbuffer.New(size)
	p.muted = true

	if p.sink != nil {
		if err := p.sink.Open(sampleRate, channels); err != nil && p.logger != nil {
			p.logger.Error(pkg+"failed to open audio sink", "error", err.Error())
		}
	}
}

// putAudio implements subchannel.Observer: stage PCM into the ring
// buffer, unmuting once it first crosses the sink's start threshold,
// then drain whatever is available to the output sink. Audio is
// silent (nothing written) while muted, mirroring the original's
// silence-until-threshold playback indicator.
func (p *Pump) putAudio(pcm []byte) {
	p.mu.Lock()
	if p.ring == nil {
		p.mu.Unlock()
		return
	}
	p.ring.Write(pcm)
	threshold := 0.5
	if p.sink != nil {
		threshold = p.sink.StartThreshold()
	}
	if p.muted && float64(p.ring.Len()) >= threshold*float64(p.ring.Capacity()) {
		p.muted = false
	}
	muted := p.muted
	ring := p.ring
	sink := p.sink
	p.mu.Unlock()

	if muted || sink == nil {
		return
	}
	buf := make([]byte, ring.Len())
	n := ring.Read(buf)
	if n > 0 {
		if _, err := sink.Write(buf[:n]); err != nil && p.logger != nil {
			p.logger.Error(pkg+"audio sink write failed", "error", err.Error())
		}
	}
}

// processPAD implements subchannel.Observer by forwarding straight to
// the pump's own pad.Decoder.
func (p *Pump) processPAD(xpad []byte, exactLen bool, fpad [2]byte) {
	p.padDec.Process(xpad, exactLen, fpad)
}

// SetMOTAppType configures which X-PAD application type carries the
// selected service's MOT slideshow, forwarded straight to the pad
// decoder, following the FIG 0/13 to PAD wiring convention.
func (p *Pump) SetMOTAppType(appType int) {
	p.padDec.SetMOTAppType(appType)
}
