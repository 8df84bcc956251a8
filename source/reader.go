/*
NAME
  reader.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package source opens a transport byte stream from a file, stdin, or
// a spawned radio-capture process, mirroring EnsembleSource's own
// input half: a non-blocking file descriptor polled with a 100ms
// timeout, so the caller's "do regular work" callback runs at a
// steady cadence regardless of how fast or slow the source itself
// produces bytes, and a single atomic flag requests clean exit.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

const pkg = "source: "

// pollTimeout is the wait quantum EnsembleSource::Main's select() call
// uses; a Reader never blocks in Read for longer than this before
// giving onTick a chance to run.
const pollTimeout = 100 * time.Millisecond

// Reader is an io.Reader over a non-blocking file descriptor that
// periodically yields to an onTick callback instead of blocking
// indefinitely, and that can be asked to stop from any goroutine.
type Reader struct {
	f          *os.File
	fd         int
	onTick     func()
	exit       atomic.Bool
	totalBytes atomic.Int64
}

// newReader sets f's descriptor non-blocking and wraps it.
func newReader(f *os.File, onTick func()) (*Reader, error) {
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("%sSetNonblock: %w", pkg, err)
	}
	if onTick == nil {
		onTick = func() {}
	}
	return &Reader{f: f, fd: fd, onTick: onTick}, nil
}

// OpenFile opens path for reading, priming TotalBytes from its size
// for the framer's progress estimator (0 if the size can't be
// determined, e.g. a FIFO), mirroring EnsembleSource::OpenFile.
func OpenFile(path string, onTick func()) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%sopen: %w", pkg, err)
	}
	r, err := newReader(f, onTick)
	if err != nil {
		f.Close()
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() {
		r.totalBytes.Store(info.Size())
	}
	return r, nil
}

// OpenStdin reads from os.Stdin, with no known total size.
func OpenStdin(onTick func()) (*Reader, error) {
	return newReader(os.Stdin, onTick)
}

// wrapFile wraps an *os.File already owned by the caller (used by
// OpenProcess for a spawned child's pty).
func wrapFile(f *os.File, onTick func()) (*Reader, error) {
	return newReader(f, onTick)
}

// TotalBytes returns the source's known total length, or 0 if unknown
// (stdin, a spawned process, or an unseekable file).
func (r *Reader) TotalBytes() int64 { return r.totalBytes.Load() }

// SetTotalBytes updates the source's known total length, letting a
// GrowthWatcher keep the progress estimator current while a recording
// being read is still being appended to by another process.
func (r *Reader) SetTotalBytes(n int64) { r.totalBytes.Store(n) }

// RequestExit asks the read loop to stop at its next 100ms poll.
func (r *Reader) RequestExit() { r.exit.Store(true) }

// Read implements io.Reader: it polls the underlying descriptor with a
// pollTimeout wait, invoking onTick and retrying on every timeout, and
// returns io.EOF once RequestExit has been called or the underlying
// source reaches end of file.
func (r *Reader) Read(p []byte) (int, error) {
	for {
		if r.exit.Load() {
			return 0, io.EOF
		}

		pfd := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfd, int(pollTimeout/time.Millisecond))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("%spoll: %w", pkg, err)
		}
		if n == 0 {
			r.onTick()
			continue
		}

		nread, err := r.f.Read(p)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				continue
			}
			return nread, err
		}
		return nread, nil
	}
}

// Close releases the underlying descriptor.
func (r *Reader) Close() error {
	return r.f.Close()
}
