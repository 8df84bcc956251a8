/*
NAME
  engine.go

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
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
)

// Progress reports how far the framer has read through a source whose
// total length is known (a regular file), mirroring ENSEMBLE_PROGRESS.
type Progress struct {
	// Value is the fraction of the estimated total frame count already
	// read, in [0,1].
	Value float64
	// Text is a human-readable "elapsed / estimated total" timecode.
	Text string
}

// Observer receives the framer's FIC and sub-channel byte splits plus
// progress updates. Implementations must not block.
type Observer interface {
	ProcessFIC(data []byte)
	ProcessSubChannel(data []byte)
	UpdateProgress(Progress)
}

// format is implemented once per wire format (ETI(NI), EDI) and supplies
// the framer engine with the format-specific sync magics, frame-sizing
// and per-frame decode logic, mirroring the split between the
// format-agnostic EnsembleSource::Main loop and its CheckFrameCompleted/
// ProcessCompletedFrame/DecodeFrame overrides.
type format interface {
	name() string
	initialFrameSize() int
	syncMagics() []syncMagic
	// frameCompleted is invoked once a magic matches at offset 0 of a
	// fully-read buffer. done is false to request the buffer be grown
	// to newSize and refilled before being re-examined (EDI's two-stage
	// header-then-payload framing); true once the frame is complete.
	frameCompleted(frame []byte, matched syncMagic) (newSize int, done bool)
	// decodeFrame processes one complete frame, reporting FIC/sub-channel
	// splits and untouched-stream bytes via e.
	decodeFrame(e *engine, frame []byte, matched syncMagic)
}

// engine is the shared sync-scan/refill/decode loop, mirroring
// EnsembleSource::Main minus its select()-based non-blocking I/O, which
// this module leaves to the caller's io.Reader (source.Reader already
// exposes a non-blocking fd of its own).
type engine struct {
	wire     format
	observer Observer
	logger   logging.Logger
	untouch  UntouchedConsumer

	subChanID int

	frame  []byte
	filled int

	framesCount  uint64
	bytesCount   int64
	bytesTotal   int64
	progressNext uint64
}

func newEngine(f format, observer Observer, l logging.Logger) *engine {
	return &engine{
		wire:      f,
		observer:  observer,
		logger:    l,
		subChanID: -1,
		frame:     make([]byte, f.initialFrameSize()),
	}
}

// setTotalBytes primes the progress estimator with a known input size
// (0 for unseekable sources like stdin), mirroring UpdateTotalBytes.
func (e *engine) setTotalBytes(n int64) { e.bytesTotal = n }

func (e *engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Info(fmt.Sprintf(pkg+format, args...))
	}
}

// run reads r until it returns io.EOF or ctx is cancelled, scanning for
// sync and dispatching completed frames to e.wire.decodeFrame.
func (e *engine) run(ctx context.Context, r io.Reader) error {
	syncSkipped := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(e.frame[e.filled:])
		if n > 0 {
			e.bytesCount += int64(n)
			e.filled += n
		}
		if err != nil {
			if err == io.EOF {
				if syncSkipped+e.filled > 0 {
					e.logf("skipping %d bytes at EOF", syncSkipped+e.filled)
				}
				e.updateProgress()
				return nil
			}
			return fmt.Errorf("%sread: %w", pkg, err)
		}
		if e.filled < len(e.frame) {
			continue
		}

		magics := e.wire.syncMagics()
		offset, matched, ok := scanSync(e.frame[:e.filled], magics)
		if !ok {
			// nothing in this buffer matches at all: keep only the
			// trailing bytes that could still be a sync prefix.
			tail := maxSyncLen(magics) - 1
			if tail < 0 {
				tail = 0
			}
			if tail > e.filled {
				tail = 0
			}
			copy(e.frame, e.frame[e.filled-tail:e.filled])
			syncSkipped += e.filled - tail
			e.filled = tail
			continue
		}

		if offset > 0 {
			copy(e.frame, e.frame[offset:e.filled])
			e.filled -= offset
			syncSkipped += offset
			continue
		}

		if syncSkipped > 0 {
			e.logf("skipping %d bytes for sync", syncSkipped)
			syncSkipped = 0
		}

		newSize, done := e.wire.frameCompleted(e.frame[:e.filled], matched)
		if !done {
			grown := make([]byte, newSize)
			copy(grown, e.frame[:e.filled])
			e.frame = grown
			continue
		}

		e.framesCount++
		if e.bytesTotal > 0 && e.framesCount*24 >= e.progressNext {
			e.updateProgress()
			e.progressNext += 500
		}

		e.wire.decodeFrame(e, e.frame[:e.filled], matched)

		e.frame = make([]byte, e.wire.initialFrameSize())
		e.filled = 0
	}
}

func (e *engine) updateProgress() {
	if e.bytesTotal == 0 || e.framesCount == 0 {
		return
	}
	left := e.bytesTotal - e.bytesCount
	avgFrame := float64(e.bytesCount) / float64(e.framesCount)
	framesLeft := uint64(float64(left) / avgFrame)
	total := e.framesCount + framesLeft

	e.observer.UpdateProgress(Progress{
		Value: float64(e.framesCount) / float64(total),
		Text:  fmt.Sprintf("%s / %s", msTimecode(e.framesCount*24), msTimecode(total*24)),
	})
}

func msTimecode(ms uint64) string {
	s := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
