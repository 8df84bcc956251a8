/*
NAME
  sync.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package transport frames a raw ETI(NI) or EDI byte stream into
// complete ensemble frames: it scans for one of a format's sync magics,
// resyncs on drift, reassembles length-prefixed frames (EDI) or
// fixed-size frames (ETI), validates the per-frame CRCs and splits each
// frame into its FIC and selected sub-channel byte ranges, mirroring
// EnsembleSource/ETIPlayer/EDIPlayer.
package transport

import "bytes"

const pkg = "transport: "

// syncMagic is one candidate byte pattern an ensemble frame may start
// with, checked at a fixed offset within the accumulating buffer,
// mirroring SYNC_MAGIC.
type syncMagic struct {
	offset int
	bytes  []byte
	name   string
}

func (s syncMagic) len() int { return s.offset + len(s.bytes) }

func (s syncMagic) matches(buf []byte) bool {
	if s.offset+len(s.bytes) > len(buf) {
		return false
	}
	return bytes.Equal(buf[s.offset:s.offset+len(s.bytes)], s.bytes)
}

// maxSyncLen returns the widest span any of magics examines, the amount
// of trailing buffer that can never be a sync point.
func maxSyncLen(magics []syncMagic) int {
	max := 0
	for _, m := range magics {
		if m.len() > max {
			max = m.len()
		}
	}
	return max
}

// scanSync looks for the first offset in buf where any of magics
// matches, mirroring EnsembleSource::Main's std::find_if loop over a
// sliding window. ok is false if no magic matches anywhere in buf.
func scanSync(buf []byte, magics []syncMagic) (offset int, matched syncMagic, ok bool) {
	maxLen := maxSyncLen(magics)
	if maxLen == 0 || len(buf) < maxLen {
		return 0, syncMagic{}, false
	}
	for offset = 0; offset <= len(buf)-maxLen; offset++ {
		for _, m := range magics {
			if m.matches(buf[offset:]) {
				return offset, m, true
			}
		}
	}
	return 0, syncMagic{}, false
}
