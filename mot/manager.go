/*
NAME
  manager.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package mot

import (
	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/crc"
)

// Observer receives completed MOT objects.
type Observer interface {
	MOTFileCompleted(File)
}

// Manager reassembles the MOT data groups belonging to one transport
// at a time into a File, resetting whenever the transport ID changes.
type Manager struct {
	Logger   logging.Logger
	observer Observer

	object            *object
	currentTransportID int
}

const transportIDNone = -1

// New returns a Manager reporting completed objects to observer.
func New(observer Observer, l logging.Logger) *Manager {
	m := &Manager{observer: observer, Logger: l}
	m.Reset()
	return m
}

// Reset discards any in-flight object and transport-ID tracking.
func (m *Manager) Reset() {
	m.object = newObject()
	m.currentTransportID = transportIDNone
}

// HandleMOTDataGroup parses one reassembled X-PAD data group (header +
// body CRC already validated by the caller) and, once the in-flight
// object's header and body both complete, reports the finished File.
func (m *Manager) HandleMOTDataGroup(dg []byte) {
	offset := 0

	dgType, newOffset, ok := parseCheckDataGroupHeader(dg, offset)
	if !ok {
		return
	}
	offset = newOffset

	lastSeg, segNumber, transportID, newOffset, ok := parseCheckSessionHeader(dg, offset)
	if !ok {
		return
	}
	offset = newOffset

	segSize, newOffset, ok := parseCheckSegmentationHeader(dg, offset)
	if !ok {
		return
	}
	offset = newOffset

	if m.currentTransportID != transportID {
		if m.Logger != nil {
			m.Logger.Debug(pkg+"transport ID change", "old", m.currentTransportID, "new", transportID)
		}
		m.currentTransportID = transportID
		m.object = newObject()
	}
	m.object.addSeg(dgType == 3, segNumber, lastSeg, dg[offset:offset+segSize])

	if m.object.isToBeShown() {
		file := m.object.file()
		if m.Logger != nil {
			m.Logger.Debug(pkg+"object completed", "transportID", transportID, "contentType", file.ContentType, "contentSubType", file.ContentSubType)
		}
		m.observer.MOTFileCompleted(file)
	}
}

// parseCheckDataGroupHeader validates the MOT data group header: CRC,
// segment and user-access flags must all be set, and only DG types 3
// (header) and 4 (body) are accepted.
func parseCheckDataGroupHeader(dg []byte, offset int) (dgType, newOffset int, ok bool) {
	if len(dg) < offset+2 {
		return 0, 0, false
	}
	extensionFlag := dg[offset]&0x80 != 0
	crcFlag := dg[offset]&0x40 != 0
	segmentFlag := dg[offset]&0x20 != 0
	userAccessFlag := dg[offset]&0x10 != 0
	dgType = int(dg[offset] & 0x0F)

	newOffset = offset + 2
	if extensionFlag {
		newOffset += 2
	}

	if !crcFlag || !segmentFlag || !userAccessFlag {
		return 0, 0, false
	}
	if dgType != 3 && dgType != 4 {
		return 0, 0, false
	}
	return dgType, newOffset, true
}

// parseCheckSessionHeader extracts the last-segment flag, 15-bit
// segment number and 16-bit transport ID (only a 2-byte transport ID
// is supported, matching length-indicator >= 2).
func parseCheckSessionHeader(dg []byte, offset int) (lastSeg bool, segNumber, transportID, newOffset int, ok bool) {
	if len(dg) < offset+3 {
		return false, 0, 0, 0, false
	}
	lastSeg = dg[offset]&0x80 != 0
	segNumber = int(dg[offset]&0x7F)<<8 | int(dg[offset+1])
	transportIDFlag := dg[offset+2]&0x10 != 0
	lenIndicator := int(dg[offset+2] & 0x0F)
	offset += 3

	if !transportIDFlag || lenIndicator < 2 {
		return false, 0, 0, 0, false
	}
	if len(dg) < offset+lenIndicator {
		return false, 0, 0, 0, false
	}

	transportID = int(dg[offset])<<8 | int(dg[offset+1])
	newOffset = offset + lenIndicator
	return lastSeg, segNumber, transportID, newOffset, true
}

// parseCheckSegmentationHeader extracts the announced segment size and
// rejects the group if it does not equal the bytes remaining once the
// trailing CRC is excluded.
func parseCheckSegmentationHeader(dg []byte, offset int) (segSize, newOffset int, ok bool) {
	if len(dg) < offset+2 {
		return 0, 0, false
	}
	segSize = int(dg[offset]&0x1F)<<8 | int(dg[offset+1])
	newOffset = offset + 2

	if segSize != len(dg)-newOffset-crc.Len {
		return 0, 0, false
	}
	return segSize, newOffset, true
}
