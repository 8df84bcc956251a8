/*
NAME
  receiver.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package receiver wires transport, fic and audio together into one
// ensemble receiver: a Framer splits the source stream into FIC and
// selected sub-channel bytes, an fic.Decoder accumulates ensemble/
// service state from the former, an audio.Pump decodes and plays the
// latter, and the receiver itself arbitrates which audio service is
// selected, mirroring DABlinText's role gluing EnsembleSource,
// FICDecoder and EnsemblePlayer together behind one set of command
// line options.
package receiver

import (
	"context"
	"io"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/audio"
	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/fic"
	"github.com/dablin-go/dablin/mot"
	"github.com/dablin-go/dablin/pad"
	"github.com/dablin-go/dablin/transport"
)

const pkg = "receiver: "

// Format selects the transport wire format a Receiver's source carries.
type Format int

const (
	FormatETI Format = iota
	FormatEDI
)

// bytesPerCapacityUnit is the MSC capacity unit size (64 bits), used to
// convert a sub-channel's FIG 0/1 size into its per-24ms frame byte
// count for SetAudioService/superframe sizing.
const bytesPerCapacityUnit = 8

// SelectionMode picks how the receiver decides which listed service to
// play, mirroring dablin's "at most one initial parameter" CLI group
// (-l/-1/-s+-x/-r/-R).
type SelectionMode int

const (
	// SelectNone plays nothing until SetSelection picks a mode.
	SelectNone SelectionMode = iota
	// SelectFirstFound adopts the first listed service FIC reports and
	// then behaves as SelectBySID for that service from then on.
	SelectFirstFound
	// SelectByLabel matches a listed service's UTF-8 label exactly.
	SelectByLabel
	// SelectBySID matches SID and SCIdS (SCIdSNone for a primary
	// component).
	SelectBySID
	// SelectBySubChID plays a sub-channel directly, bypassing FIC
	// service matching entirely (dablin's -r/-R).
	SelectBySubChID
)

// Selection names the audio service (or bare sub-channel) a Receiver
// should play.
type Selection struct {
	Mode  SelectionMode
	Label string
	// SID is ensemble.SIDNone (-1) and SCIdS is ensemble.SCIdSNone (-1)
	// when unset; SelectBySID requires SID.
	SID     int
	SCIdS   int
	SubChID int
	// DABPlus is only consulted when Mode is SelectBySubChID, since a
	// bare sub-channel selection has no FIC-derived AudioService to
	// read it from.
	DABPlus bool
}

// Observer receives every event a Receiver emits: FIC/audio service
// state changes, PAD-derived dynamic label and slideshow updates, raw
// taps for recording and progress, mirroring the original's abstract
// observer surface. Of the raw taps, ProcessFIC is called for every
// FIC payload; ProcessPAD is not called by the Receiver (raw PAD goes
// to the audio pump's own PAD decoder); UntouchedStream is called only
// when the observer is installed with SetUntouchedConsumer.
type Observer interface {
	FormatChange(summary string)
	ProcessFIC(data []byte)
	ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte)
	ResetPAD()
	EnsembleChanged(ensemble.Ensemble)
	ServiceChanged(ensemble.ListedService)
	UTCDateTime(ensemble.DateTime)
	FIBDiscarded()
	DynamicLabel(pad.Label)
	Slide(mot.File)
	UntouchedStream(data []byte, durationMS int)
	Progress(transport.Progress)
}

// Receiver owns one transport.Framer, one fic.Decoder and one
// audio.Pump, and arbitrates which listed service's audio is selected
// as FIC state arrives, mirroring DABlinText minus its CLI option
// parsing (that lives in cmd/dablin).
type Receiver struct {
	logger   logging.Logger
	observer Observer
	framer   *transport.Framer
	fic      *fic.Decoder
	pump     *audio.Pump

	mu        sync.Mutex
	selection Selection
	// adopted records whether SelectFirstFound has locked onto a
	// service (whose SID/SCIdS are then stored in selection), so that
	// subsequent FICChangeService calls for the same service keep
	// re-selecting it even as other services arrive.
	adopted bool
}

// New returns a Receiver reading format from its source, decoding audio
// through sink using codecs, and reporting every event to observer. If
// catchUp is false, the audio pump resyncs its pacing schedule after a
// stall instead of replaying the backlog at full speed.
func New(format Format, sink audio.Sink, codecs audio.CodecFactory, catchUp bool, observer Observer, l logging.Logger) *Receiver {
	r := &Receiver{logger: l, observer: observer}

	r.pump = audio.New(sink, codecs, r, catchUp, l)
	r.pump.SetFormatObserver(func(format string) {
		if r.observer != nil {
			r.observer.FormatChange(format)
		}
	})
	r.pump.SetPADResetObserver(func() {
		if r.observer != nil {
			r.observer.ResetPAD()
		}
	})

	r.fic = fic.New(r, false, l)

	if format == FormatEDI {
		r.framer = transport.NewEDIFramer(r, l)
	} else {
		r.framer = transport.NewETIFramer(r, l)
	}
	r.framer.SelectSubChannel(ensemble.SubChIDNone)
	return r
}

// SetDisableDynamicMessages toggles whether the FIC decoder suppresses
// dynamic PTY/announcement messages, mirroring dablin's -F flag. Call
// before Run.
func (r *Receiver) SetDisableDynamicMessages(disable bool) {
	r.fic = fic.New(r, disable, r.logger)
}

// SetMOTAppType configures which X-PAD application type carries the
// selected service's MOT slideshow.
func (r *Receiver) SetMOTAppType(appType int) {
	r.pump.SetMOTAppType(appType)
}

// SetUntouchedConsumer installs (or, with nil, removes) the tap
// receiving every selected sub-channel frame's raw bytes, mirroring
// dablin's -u flag.
func (r *Receiver) SetUntouchedConsumer(c transport.UntouchedConsumer) {
	r.framer.SetUntouchedConsumer(c)
}

// SetTotalBytes primes the progress estimator; 0 for an unseekable
// source.
func (r *Receiver) SetTotalBytes(n int64) {
	r.framer.SetTotalBytes(n)
}

// SetSelection installs which listed service (or bare sub-channel) the
// receiver should play. SelectBySubChID takes effect immediately, since
// it needs no FIC state; the other modes take effect as matching FIC
// service reports arrive.
func (r *Receiver) SetSelection(s Selection) {
	r.mu.Lock()
	r.selection = s
	r.adopted = false
	r.mu.Unlock()

	if s.Mode == SelectBySubChID {
		r.pump.SetAudioService(ensemble.AudioService{SubChID: s.SubChID, DABPlus: s.DABPlus}, 0)
		r.framer.SelectSubChannel(s.SubChID)
	}
}

// Run reads r until EOF or ctx is cancelled, driving the whole decode
// chain and the real-time audio pump.
func (r *Receiver) Run(ctx context.Context, src io.Reader) error {
	return r.framer.Run(ctx, src)
}

// ProcessFIC implements transport.Observer.
func (r *Receiver) ProcessFIC(data []byte) {
	if r.observer != nil {
		r.observer.ProcessFIC(data)
	}
	r.fic.Process(data)
}

// ProcessSubChannel implements transport.Observer.
func (r *Receiver) ProcessSubChannel(data []byte) {
	r.pump.Feed(data)
}

// UpdateProgress implements transport.Observer.
func (r *Receiver) UpdateProgress(p transport.Progress) {
	if r.observer != nil {
		r.observer.Progress(p)
	}
}

// FICChangeEnsemble implements fic.Observer.
func (r *Receiver) FICChangeEnsemble(e ensemble.Ensemble) {
	if r.observer != nil {
		r.observer.EnsembleChanged(e)
	}
}

// FICChangeUTCDateTime implements fic.Observer.
func (r *Receiver) FICChangeUTCDateTime(dt ensemble.DateTime) {
	if r.observer != nil {
		r.observer.UTCDateTime(dt)
	}
}

// FICDiscardedFIB implements fic.Observer.
func (r *Receiver) FICDiscardedFIB() {
	if r.observer != nil {
		r.observer.FIBDiscarded()
	}
}

// FICChangeService implements fic.Observer: it is the receiver's
// selection arbiter, mirroring DABlinText::FICChangeService's
// adopt-first-found / match-by-label-or-SID / switch-if-changed logic.
func (r *Receiver) FICChangeService(svc ensemble.ListedService) {
	if r.observer != nil {
		r.observer.ServiceChanged(svc)
	}

	r.mu.Lock()
	sel := r.selection
	if sel.Mode == SelectFirstFound && !r.adopted {
		sel.Mode = SelectBySID
		sel.SID, sel.SCIdS = svc.SID, svc.SCIdS
		r.selection = sel
		r.adopted = true
	}
	r.mu.Unlock()

	var match bool
	switch sel.Mode {
	case SelectByLabel:
		match = fic.ConvertLabelToUTF8(svc.Label) == sel.Label
	case SelectBySID:
		match = svc.SID == sel.SID && svc.SCIdS == sel.SCIdS
	default:
		return // SelectNone or SelectBySubChID: not FIC-driven.
	}
	if !match {
		return
	}

	bytesPerFrame := svc.SubChannel.Size * bytesPerCapacityUnit
	r.pump.SetAudioService(svc.AudioService, bytesPerFrame)
	r.framer.SelectSubChannel(svc.AudioService.SubChID)
}

// PADChangeDynamicLabel implements pad.Observer.
func (r *Receiver) PADChangeDynamicLabel(label pad.Label) {
	if r.observer != nil {
		r.observer.DynamicLabel(label)
	}
}

// PADChangeSlide implements pad.Observer.
func (r *Receiver) PADChangeSlide(file mot.File) {
	if r.observer != nil {
		r.observer.Slide(file)
	}
}

// PADLengthError implements pad.Observer: a transient payload error,
// logged and otherwise ignored.
func (r *Receiver) PADLengthError(announced, available int) {
	if r.logger != nil {
		r.logger.Warning(pkg+"PAD length mismatch", "announced", announced, "available", available)
	}
}
