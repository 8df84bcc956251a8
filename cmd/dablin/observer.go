/*
NAME
  observer.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/mot"
	"github.com/dablin-go/dablin/pad"
	"github.com/dablin-go/dablin/transport"
)

// textObserver implements receiver.Observer (and, structurally,
// transport.UntouchedConsumer) by printing console lines, mirroring
// DABlinText's own event handlers: a backspace-overwritten progress
// line, a terse "(FIB)" tick for every discarded FIB, and one line per
// service/ensemble/label change.
type textObserver struct {
	w io.Writer

	mu          sync.Mutex
	progressLen int
}

// newTextObserver returns a textObserver writing console lines to w.
func newTextObserver(w io.Writer) *textObserver { return &textObserver{w: w} }

func (o *textObserver) FormatChange(summary string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprintln(o.w, summary)
}

func (o *textObserver) ProcessFIC(data []byte) {}

func (o *textObserver) ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte) {}

func (o *textObserver) ResetPAD() {}

func (o *textObserver) EnsembleChanged(e ensemble.Ensemble) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprintf(o.w, "ensemble: %s (0x%04X)\n", labelText(e.Label), e.EID)
}

func (o *textObserver) ServiceChanged(s ensemble.ListedService) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprintf(o.w, "service: %s (SId 0x%04X", labelText(s.Label), s.SID)
	if s.SCIdS != ensemble.SCIdSNone {
		fmt.Fprintf(o.w, ", SCIdS %d", s.SCIdS)
	}
	fmt.Fprintln(o.w, ")")
}

func (o *textObserver) UTCDateTime(dt ensemble.DateTime) {
	if dt.None() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprintf(o.w, "UTC: %s\n", dt.Time.Format("2006-01-02 15:04:05"))
}

// FIBDiscarded prints a single "(FIB) " tick inline, mirroring
// FICDiscardedFIB's own terse per-tick marker rather than a full line.
func (o *textObserver) FIBDiscarded() {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprint(o.w, "(FIB) ")
}

func (o *textObserver) DynamicLabel(l pad.Label) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprintf(o.w, "DL: %s\n", l.Text)
}

func (o *textObserver) Slide(f mot.File) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	kind := "image"
	switch f.ContentSubType {
	case mot.ContentSubTypeJFIF:
		kind = "JFIF"
	case mot.ContentSubTypePNG:
		kind = "PNG"
	}
	fmt.Fprintf(o.w, "slide: %s, %d bytes (%s)\n", f.ContentName, len(f.Data), kind)
}

// UntouchedStream writes the selected sub-channel's raw bytes to stdout
// (the -u flag).
func (o *textObserver) UntouchedStream(data []byte, durationMS int) {
	os.Stdout.Write(data)
}

// Progress overwrites the previous progress line with backspaces,
// mirroring EnsembleUpdateProgress's console redraw.
func (o *textObserver) Progress(p transport.Progress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearProgress()
	fmt.Fprint(o.w, p.Text)
	o.progressLen = len(p.Text)
}

func (o *textObserver) clearProgress() {
	if o.progressLen == 0 {
		return
	}
	fmt.Fprint(o.w, strings.Repeat("\b", o.progressLen)+strings.Repeat(" ", o.progressLen)+strings.Repeat("\b", o.progressLen))
	o.progressLen = 0
}

// labelText returns a label's raw bytes with trailing 0x00 bytes
// trimmed; it does no charset conversion and keeps trailing spaces.
func labelText(l ensemble.Label) string {
	if l.None() {
		return "(none)"
	}
	n := len(l.Chars)
	for n > 0 && l.Chars[n-1] == 0 {
		n--
	}
	return string(l.Chars[:n])
}
