/*
NAME
  fic.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package fic decodes the Fast Information Channel: FIB blocks (each
// 32 bytes, CRC-16/CCITT checked) carrying FIG 0 (MCI/SI) and FIG 1
// (labels) groups. A Decoder accumulates ensemble, sub-channel and
// service state across many frames and reports changes to an Observer,
// mirroring the original FICDecoder's "diff against last known state,
// only notify on change" behaviour.
package fic

import (
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/crc"
	"github.com/dablin-go/dablin/ensemble"
)

const pkg = "fic: "

// Observer receives FIC state changes as the Decoder accumulates them.
// Implementations must not block, since Process is called on the
// transport's hot path.
type Observer interface {
	FICChangeEnsemble(ensemble.Ensemble)
	FICChangeService(ensemble.ListedService)
	FICChangeUTCDateTime(ensemble.DateTime)
	FICDiscardedFIB()
}

// service mirrors FIC_SERVICE: the full accumulated state for one SID,
// from which Decoder derives the ListedService(s) it reports.
type service struct {
	sid            uint16
	priCompSubChID int
	label          ensemble.Label
	ptyStatic      int
	ptyDynamic     int
	asuFlags       uint16
	clusterIDs     map[uint8]struct{}

	audioComps map[int]ensemble.AudioService // sub-channel ID -> audio service (FIG 0/2)
	compDefs   map[int]int                   // SCIdS -> sub-channel ID (FIG 0/8)
	compLabels map[int]ensemble.Label        // SCIdS -> label (FIG 1/4)
	compSLSUAs map[int][]byte                // SCIdS -> user-application data (FIG 0/13)
}

func newService(sid uint16) *service {
	return &service{
		sid:            sid,
		label:          ensemble.Label{Charset: ensemble.CharsetNone},
		priCompSubChID: ensemble.SubChIDNone,
		ptyStatic:      ensemble.PTYNone,
		ptyDynamic:     ensemble.PTYNone,
		clusterIDs:     make(map[uint8]struct{}),
		audioComps:     make(map[int]ensemble.AudioService),
		compDefs:       make(map[int]int),
		compLabels:     make(map[int]ensemble.Label),
		compSLSUAs:     make(map[int][]byte),
	}
}

func (s *service) hasPriComp() bool { return s.priCompSubChID != ensemble.SubChIDNone }

// Decoder decodes FIC data and reports state changes to an Observer.
// A Decoder is safe for concurrent use; Process is expected to be
// called from the transport goroutine while an observer may read back
// catalogue state from another goroutine.
type Decoder struct {
	Logger                logging.Logger
	DisableDynamicMessages bool

	observer Observer

	mu          sync.Mutex
	ensemble    ensemble.Ensemble
	services    map[uint16]*service
	subchannels map[int]ensemble.SubChannel
	utcDT       ensemble.DateTime
}

// New returns a Decoder reporting to observer. If disableDynamicMessages
// is set, FIG 0/17 dynamic PTY log messages after the first are
// suppressed and FIG 0/19 announcement log messages are suppressed
// entirely (the CLI's -F flag).
func New(observer Observer, disableDynamicMessages bool, l logging.Logger) *Decoder {
	return &Decoder{
		Logger:                 l,
		DisableDynamicMessages: disableDynamicMessages,
		observer:               observer,
		ensemble:               ensemble.Ensemble{EID: ensemble.EIDNone, Label: ensemble.Label{Charset: ensemble.CharsetNone}, ExtendedCountryCode: ensemble.ExtendedCountryCodeNone, LocalTimeOffset: ensemble.LocalTimeOffsetNone, InternationalTableID: ensemble.InternationalTableIDNone, AnnouncementClusters: make(map[uint8]ensemble.AnnouncementCluster)},
		services:               make(map[uint16]*service),
		subchannels:            make(map[int]ensemble.SubChannel),
	}
}

// Reset discards all accumulated ensemble/service/sub-channel state,
// used whenever the transport resynchronizes onto a new ensemble.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ensemble = ensemble.Ensemble{EID: ensemble.EIDNone, Label: ensemble.Label{Charset: ensemble.CharsetNone}, ExtendedCountryCode: ensemble.ExtendedCountryCodeNone, LocalTimeOffset: ensemble.LocalTimeOffsetNone, InternationalTableID: ensemble.InternationalTableIDNone, AnnouncementClusters: make(map[uint8]ensemble.AnnouncementCluster)}
	d.services = make(map[uint16]*service)
	d.subchannels = make(map[int]ensemble.SubChannel)
	d.utcDT = ensemble.DateTime{Milliseconds: ensemble.MillisecondsNone}
}

// Process decodes the FIC payload of one ETI/EDI frame: a sequence of
// 32-byte FIB blocks. Non-multiple-of-32 input is ignored entirely, as
// it cannot be a valid set of FIBs.
func (d *Decoder) Process(data []byte) {
	if len(data)%32 != 0 {
		if d.Logger != nil {
			d.Logger.Warning(pkg+"ignoring non-integer FIB count FIC data", "bytes", len(data))
		}
		return
	}
	for i := 0; i+32 <= len(data); i += 32 {
		d.processFIB(data[i : i+32])
	}
}

func (d *Decoder) processFIB(fib []byte) {
	if !crc.CCITT.CheckTrailing(fib) {
		d.observer.FICDiscardedFIB()
		return
	}

	for offset := 0; offset < 30 && fib[offset] != 0xFF; {
		figType := fib[offset] >> 5
		figLen := int(fib[offset] & 0x1F)
		offset++

		if offset+figLen > 30 {
			break
		}
		switch figType {
		case 0:
			d.processFIG0(fib[offset : offset+figLen])
		case 1:
			d.processFIG1(fib[offset : offset+figLen])
		}
		offset += figLen
	}
}

// getOrCreateService returns the service for sid, creating it with
// defaulted fields if this is the first time it is seen.
func (d *Decoder) getOrCreateService(sid uint16) *service {
	s, ok := d.services[sid]
	if !ok {
		s = newService(sid)
		d.services[sid] = s
	}
	return s
}
