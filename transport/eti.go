/*
NAME
  eti.go

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

import "github.com/dablin-go/dablin/crc"

const etiFrameSize = 6144

// etiFormat implements the ETI(NI) wire format: a fixed 6144-byte
// frame starting ERR/FSYNC/FC, mirroring ETISource (framing) and
// ETIPlayer::DecodeFrame (field decode).
type etiFormat struct {
	prevFSYNC uint32
}

func (f *etiFormat) name() string          { return "ETI" }
func (f *etiFormat) initialFrameSize() int { return etiFrameSize }

func (f *etiFormat) syncMagics() []syncMagic {
	return []syncMagic{
		{offset: 1, bytes: []byte{0x07, 0x3A, 0xB6}, name: "FSYNC0"},
		{offset: 1, bytes: []byte{0xF8, 0xC5, 0x49}, name: "FSYNC1"},
	}
}

// frameCompleted is trivial: the frame is already fixed-size, so a
// synced buffer is always a complete frame.
func (f *etiFormat) frameCompleted(frame []byte, matched syncMagic) (int, bool) {
	return len(frame), true
}

func (f *etiFormat) decodeFrame(e *engine, frame []byte, matched syncMagic) {
	fsync := uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
	if (fsync != 0x073AB6 && fsync != 0xF8C549) || fsync == f.prevFSYNC {
		e.logf("ignored ETI frame with FSYNC = 0x%06X", fsync)
		return
	}
	f.prevFSYNC = fsync

	if frame[0] != 0xFF {
		e.logf("ignored ETI frame with ERR = 0x%02X", frame[0])
		return
	}

	if frame[4] == 0xFF && frame[5] == 0xFF && frame[6] == 0xFF && frame[7] == 0xFF {
		e.logf("ignored ETI frame with null transmission")
		return
	}

	ficf := frame[5]&0x80 != 0
	nst := int(frame[5] & 0x7F)
	mid := int(frame[6]&0x18) >> 3
	fl := int(frame[6]&0x07)<<8 | int(frame[7])

	headerCRCDataLen := 4 + nst*4 + 2
	if 4+headerCRCDataLen+2 > len(frame) {
		e.logf("ignored truncated ETI frame")
		return
	}
	headerCRCStored := uint16(frame[4+headerCRCDataLen])<<8 | uint16(frame[4+headerCRCDataLen+1])
	headerCRCCalced := crc.CCITT.Calc(frame[4 : 4+headerCRCDataLen])
	if headerCRCStored != headerCRCCalced {
		e.logf("ignored ETI frame due to wrong header CRC")
		return
	}

	ficl := 0
	if ficf {
		if mid == 3 {
			ficl = 32
		} else {
			ficl = 24
		}
	}

	subChanOffset := 4 + 4 + nst*4 + 4

	mstCRCDataLen := (fl - nst - 1) * 4
	if mstCRCDataLen < 0 || subChanOffset+mstCRCDataLen+2 > len(frame) {
		e.logf("ignored ETI frame with invalid FL/NST")
		return
	}
	mstCRCStored := uint16(frame[subChanOffset+mstCRCDataLen])<<8 | uint16(frame[subChanOffset+mstCRCDataLen+1])
	mstCRCCalced := crc.CCITT.Calc(frame[subChanOffset : subChanOffset+mstCRCDataLen])
	if mstCRCStored != mstCRCCalced {
		e.logf("ignored ETI frame due to wrong (MST) CRC")
		return
	}

	if ficl > 0 {
		e.observer.ProcessFIC(frame[subChanOffset : subChanOffset+ficl*4])
		subChanOffset += ficl * 4
	}

	if e.subChanID < 0 {
		return
	}

	subChanBytes := 0
	for i := 0; i < nst; i++ {
		scid := int(frame[8+i*4]&0xFC) >> 2
		stl := int(frame[8+i*4+2]&0x03)<<8 | int(frame[8+i*4+3])

		if scid == e.subChanID {
			subChanBytes = stl * 8
			break
		}
		subChanOffset += stl * 8
	}
	if subChanBytes == 0 {
		e.logf("ignored ETI frame without sub-channel %d", e.subChanID)
		return
	}
	if subChanOffset+subChanBytes > len(frame) {
		e.logf("ignored ETI frame with out-of-range sub-channel span")
		return
	}

	data := frame[subChanOffset : subChanOffset+subChanBytes]
	e.observer.ProcessSubChannel(data)
	e.reportUntouched(data)
}
