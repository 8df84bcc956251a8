/*
NAME
  framer.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package transport

import (
	"context"
	"io"

	"github.com/ausocean/utils/logging"
)

// Framer scans a raw ETI(NI) or EDI byte stream, reassembles complete
// ensemble frames and splits each into its FIC and the currently
// selected sub-channel's bytes, mirroring the common plumbing the
// original splits across EnsembleSource (framing) and
// ETIPlayer/EDIPlayer (field decode).
type Framer struct {
	engine *engine
}

// NewETIFramer returns a Framer for raw ETI(NI) frames (fixed 6144-byte
// frames, alternating FSYNC0/FSYNC1), mirroring ETISource/ETIPlayer.
func NewETIFramer(observer Observer, l logging.Logger) *Framer {
	return &Framer{engine: newEngine(&etiFormat{}, observer, l)}
}

// NewEDIFramer returns a Framer for EDI AF packets (optionally wrapped
// in a TAG-packet/File-IO layer carrying afpf fragments), mirroring
// EDISource/EDIPlayer.
func NewEDIFramer(observer Observer, l logging.Logger) *Framer {
	return &Framer{engine: newEngine(&ediFormat{}, observer, l)}
}

// SelectSubChannel sets which sub-channel ID's bytes are split out of
// each frame and handed to the observer; -1 selects none.
func (fr *Framer) SelectSubChannel(subChanID int) {
	fr.engine.subChanID = subChanID
}

// SetTotalBytes primes the progress estimator with a known input size,
// 0 for unseekable sources (stdin, a pipe).
func (fr *Framer) SetTotalBytes(n int64) {
	fr.engine.setTotalBytes(n)
}

// Run reads r until EOF or ctx is cancelled, dispatching completed
// frames to the Framer's Observer.
func (fr *Framer) Run(ctx context.Context, r io.Reader) error {
	return fr.engine.run(ctx, r)
}
