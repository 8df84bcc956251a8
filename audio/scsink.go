/*
NAME
  scsink.go

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
	"github.com/dablin-go/dablin/subchannel"
	"github.com/dablin-go/dablin/subchannel/mp2"
	"github.com/dablin-go/dablin/subchannel/superframe"
)

// mp2Codec and superFrameCodec alias the sub-channel packages' own
// Codec interfaces so CodecFactory's fields don't need to import them
// directly at the call site.
type mp2Codec = mp2.Codec
type superFrameCodec = superframe.Codec

// pumpObserver adapts a Pump's unexported callback methods to
// subchannel.Observer, so neither mp2.Sink nor superframe.Sink needs
// to know about Pump's own locking.
type pumpObserver struct{ p *Pump }

func (o pumpObserver) FormatChange(format string)                      { o.p.formatChange(format) }
func (o pumpObserver) StartAudio(sampleRate, channels int, f32 bool)    { o.p.startAudio(sampleRate, channels, f32) }
func (o pumpObserver) PutAudio(data []byte)                            { o.p.putAudio(data) }
func (o pumpObserver) ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte) {
	o.p.processPAD(xpad, exactLen, fpad)
}

func newMP2Sink(codec mp2.Codec, p *Pump) subchannel.Sink {
	return mp2.New(codec, pumpObserver{p})
}

func newSuperFrameSink(codec superframe.Codec, p *Pump, subChanBytesPerFrame int) subchannel.Sink {
	return superframe.New(codec, pumpObserver{p}, subChanBytesPerFrame)
}
