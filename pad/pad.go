/*
NAME
  pad.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package pad decodes Programme-Associated Data: F-PAD/X-PAD Content
// Indicators are parsed per audio frame, and the data subfields they
// address are reassembled into dynamic labels and MOT data groups
// (handed on to a mot.Manager), mirroring the original PADDecoder.
package pad

import (
	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/mot"
)

const pkg = "pad: "

// Observer receives PAD decoding events. Implementations must not
// block, since Process runs on the audio decode hot path.
type Observer interface {
	PADChangeDynamicLabel(Label)
	PADChangeSlide(mot.File)
	PADLengthError(announced, available int)
}

// Decoder reassembles one service's PAD stream. Loose relaxes the
// DAB+ exact-length policy: instead of dropping a frame whose
// announced subfield length falls short of the provided X-PAD bytes,
// the residual is ignored and the last CI is still carried forward.
type Decoder struct {
	Logger logging.Logger
	Loose  bool

	observer Observer
	motMgr   *mot.Manager

	// motAppType is the X-PAD application type carrying this
	// service's MOT slideshow, as derived from FIC FIG 0/13 (-1 if
	// none/unknown).
	motAppType int

	lastCI xpadCI

	dlDecoder   *dynamicLabelDecoder
	dgliDecoder *dgliDecoder
	motDecoder  *motDecoder
}

// New returns a Decoder reporting to observer, with no MOT app type
// configured (call SetMOTAppType once the service catalog names one).
func New(observer Observer, loose bool, l logging.Logger) *Decoder {
	d := &Decoder{
		Logger:      l,
		Loose:       loose,
		observer:    observer,
		dlDecoder:   newDynamicLabelDecoder(),
		dgliDecoder: newDGLIDecoder(),
		motDecoder:  newMOTDecoder(),
	}
	d.Reset()
	d.motMgr = mot.New(motObserverFunc(d.motFileCompleted), l)
	return d
}

// motObserverFunc adapts a function to mot.Observer.
type motObserverFunc func(mot.File)

func (f motObserverFunc) MOTFileCompleted(file mot.File) { f(file) }

func (d *Decoder) motFileCompleted(file mot.File) {
	if file.IsSlideshowImage() {
		d.observer.PADChangeSlide(file)
	}
}

// SetMOTAppType configures which X-PAD application type carries this
// service's MOT slideshow; pass -1 to disable MOT handling.
func (d *Decoder) SetMOTAppType(appType int) {
	d.motAppType = appType
}

// Reset clears all PAD reassembly state, as on a service change.
func (d *Decoder) Reset() {
	d.motAppType = -1
	d.lastCI = xpadCI{typ: -1}

	d.dlDecoder = newDynamicLabelDecoder()
	d.dgliDecoder = newDGLIDecoder()
	d.motDecoder = newMOTDecoder()
	if d.motMgr != nil {
		d.motMgr.Reset()
	}
}

// Process handles one audio frame's PAD: xpad is byte-reversed before
// parsing (the wire order is reversed relative to logical order), and
// exactLen marks whether xpad's announced total length must exactly
// match len(xpad) (true for DAB+, per §5.4.3 of ETSI TS 102 563).
func (d *Decoder) Process(xpad []byte, exactLen bool, fpad [2]byte) {
	reversed := make([]byte, len(xpad))
	for i, b := range xpad {
		reversed[len(xpad)-1-i] = b
	}
	xpad = reversed

	fpadType := int(fpad[0] >> 6)
	xpadInd := int(fpad[0]&0x30) >> 4
	ciFlag := fpad[1]&0x02 != 0

	prev := d.lastCI
	d.lastCI = xpadCI{typ: -1}

	cis, ciHeaderLen, ok := buildCIList(fpadType, xpadInd, ciFlag, prev, xpad)
	if !ok {
		return
	}
	if len(cis) == 0 {
		if d.Loose {
			d.lastCI = prev
		}
		return
	}

	announced := ciHeaderLen + totalLen(cis)
	if announced > len(xpad) {
		return
	}
	if exactLen && !d.Loose && announced < len(xpad) {
		d.observer.PADLengthError(announced, len(xpad))
		return
	}

	offset := ciHeaderLen
	continuedType := -1
	for _, ci := range cis {
		dgliLen := d.dgliDecoder.takeLength()

		switch ci.typ {
		case 1: // Data Group Length Indicator
			d.dgliDecoder.processDataSubfield(true, xpad[offset:offset+ci.length])
			continuedType = 1

		case 2, 3: // Dynamic Label segment, start/continue
			start := ci.typ == 2
			if d.dlDecoder.processDataSubfield(start, xpad[offset:offset+ci.length]) {
				d.observer.PADChangeDynamicLabel(d.dlDecoder.label)
			}
			continuedType = 3

		default:
			if d.motAppType != -1 && (ci.typ == d.motAppType || ci.typ == d.motAppType+1) {
				start := ci.typ == d.motAppType
				if start {
					d.motDecoder.setLen(dgliLen)
				}
				if d.motDecoder.processDataSubfield(start, xpad[offset:offset+ci.length]) {
					d.motMgr.HandleMOTDataGroup(d.motDecoder.dataGroupBytes())
				}
				continuedType = d.motAppType + 1
			}
		}

		offset += ci.length
	}

	d.lastCI = xpadCI{length: offset, typ: continuedType}
}
