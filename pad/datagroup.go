/*
NAME
  datagroup.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package pad

import "github.com/dablin-go/dablin/crc"

// dataGroup is the shared reassembly state behind the DGLI, dynamic-
// label and MOT data-group decoders: each appends Data Subfields until
// a decode-dependent target size is reached, then hands the
// accumulated bytes to a decode callback. It mirrors the original's
// DataGroup base class, using a callback in place of a virtual method.
type dataGroup struct {
	raw        []byte
	maxSize    int
	sizeNeeded int
}

func newDataGroup(maxSize int) dataGroup {
	return dataGroup{raw: make([]byte, 0, maxSize), maxSize: maxSize}
}

func (dg *dataGroup) reset(initialNeededSize int) {
	dg.raw = dg.raw[:0]
	dg.sizeNeeded = initialNeededSize
}

// processDataSubfield appends one Data Subfield, calling decode once
// the needed size is reached. On start it resets; on continuation it
// requires an in-flight group.
func (dg *dataGroup) processDataSubfield(start bool, data []byte, initialNeededSize int, decode func() bool) bool {
	if start {
		dg.reset(initialNeededSize)
	} else if len(dg.raw) == 0 {
		return false
	}

	if len(dg.raw) >= dg.sizeNeeded {
		return false
	}
	if len(dg.raw) == dg.maxSize {
		return false
	}

	copyLen := dg.maxSize - len(dg.raw)
	if len(data) < copyLen {
		copyLen = len(data)
	}
	dg.raw = append(dg.raw, data[:copyLen]...)

	if len(dg.raw) < dg.sizeNeeded {
		return false
	}
	return decode()
}

// ensureDataGroupSize raises the needed size (used once the decoder
// has parsed enough of the group to know its true total length) and
// reports whether that size has already been reached.
func (dg *dataGroup) ensureDataGroupSize(desired int) bool {
	dg.sizeNeeded = desired
	return len(dg.raw) >= dg.sizeNeeded
}

// checkCRC validates the stored CRC-16/CCITT trailer starting right
// after the first length bytes of the accumulated group.
func (dg *dataGroup) checkCRC(length int) bool {
	if len(dg.raw) < length+crc.Len {
		return false
	}
	return crc.CCITT.CheckTrailing(dg.raw[:length+crc.Len])
}
