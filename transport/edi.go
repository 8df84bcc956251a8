/*
NAME
  edi.go

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
	"github.com/dablin-go/dablin/crc"
)

const ediHeaderSize = 8

// ediFormat implements the EDI wire format: either a bare AF packet, or
// that AF packet wrapped in a length-prefixed "File IO" TAG packet
// carrying one or more afpf (AF Packet/PFT Fragment) TAG items,
// mirroring EDISource (two-stage length-then-payload framing) and
// EDIPlayer::DecodeFrame (AF packet field decode plus TAG-item walk).
type ediFormat struct {
	layer string
}

func (f *ediFormat) name() string          { return "EDI" }
func (f *ediFormat) initialFrameSize() int { return ediHeaderSize }

func (f *ediFormat) syncMagics() []syncMagic {
	return []syncMagic{
		{offset: 0, bytes: []byte{'A', 'F'}, name: "AF"},
		{offset: 0, bytes: []byte{'f', 'i', 'o', '_'}, name: "File IO"},
	}
}

// frameCompleted implements EDISource::CheckFrameCompleted's two-stage
// sizing: an 8-byte header carries a 32-bit length field whose position
// depends on which layer matched, and the frame is grown once to the
// full announced size before being considered complete.
func (f *ediFormat) frameCompleted(frame []byte, matched syncMagic) (int, bool) {
	if len(frame) != ediHeaderSize {
		return 0, true
	}
	if matched.name == "AF" {
		length := int(frame[2])<<24 | int(frame[3])<<16 | int(frame[4])<<8 | int(frame[5])
		return 10 + length + 2, false
	}
	length := int(frame[4])<<24 | int(frame[5])<<16 | int(frame[6])<<8 | int(frame[7])
	return 4 + 4 + length/8, false
}

func (f *ediFormat) decodeFrame(e *engine, frame []byte, matched syncMagic) {
	if f.layer != matched.name {
		f.layer = matched.name
		e.logf("detected %s layer", f.layer)
	}

	if matched.name == "AF" {
		f.decodeAFPacket(e, frame)
		return
	}

	// TAG packet (File IO layer): walk its TAG items, skipping padding.
	for i := 0; i < len(frame)-8; {
		item := frame[8+i:]
		if len(item) < 8 {
			break
		}
		name := string(item[:4])
		tagLen := int(item[4])<<24 | int(item[5])<<16 | int(item[6])<<8 | int(item[7])
		valueLen := (tagLen + 7) / 8
		if 8+valueLen > len(item) {
			break
		}
		value := item[8 : 8+valueLen]
		itemLenBytes := 4 + 4 + valueLen

		switch name {
		case "afpf":
			f.decodeAFPacket(e, value)
		case "time":
			// timestamp, ignored
		default:
			e.logf("ignored unsupported TAG item %q (%d bits)", name, tagLen)
		}

		i += itemLenBytes
	}
}

// decodeAFPacket decodes one AF packet: SYNC/LEN/CF/MAJ/MIN/PT header,
// CRC trailer, then its own TAG-item walk (deti/estN/info/...),
// mirroring EDIPlayer::DecodeFrame.
func (f *ediFormat) decodeAFPacket(e *engine, frame []byte) {
	if len(frame) < 12 {
		e.logf("ignored truncated EDI AF packet")
		return
	}
	sync := uint16(frame[0])<<8 | uint16(frame[1])
	switch sync {
	case 0x4146: // "AF"
	case 0x5046: // "PF"
		e.logf("ignored unsupported EDI PF packet")
		return
	default:
		e.logf("ignored EDI packet with SYNC = 0x%04X", sync)
		return
	}

	length := int(frame[2])<<24 | int(frame[3])<<16 | int(frame[4])<<8 | int(frame[5])

	cf := frame[8]&0x80 != 0
	if !cf {
		e.logf("ignored EDI AF packet without CRC")
		return
	}
	maj := int(frame[8]&0x70) >> 4
	if maj != 0x01 {
		e.logf("ignored EDI AF packet with MAJ = 0x%02X", maj)
		return
	}
	min := int(frame[8] & 0x0F)
	if min != 0x00 {
		e.logf("ignored EDI AF packet with MIN = 0x%02X", min)
		return
	}
	if frame[9] != 'T' {
		e.logf("ignored EDI AF packet with PT = %q", frame[9])
		return
	}

	if 10+length+2 > len(frame) {
		e.logf("ignored truncated EDI AF packet")
		return
	}
	crcStored := uint16(frame[10+length])<<8 | uint16(frame[10+length+1])
	crcCalced := crc.CCITT.Calc(frame[:10+length])
	if crcStored != crcCalced {
		e.logf("ignored EDI AF packet due to wrong CRC")
		return
	}

	for i := 0; i < length-8; {
		item := frame[10+i:]
		if len(item) < 8 {
			break
		}
		name := string(item[:4])
		tagLen := int(item[4])<<24 | int(item[5])<<16 | int(item[6])<<8 | int(item[7])
		valueLen := (tagLen + 7) / 8
		if 8+valueLen > len(item) {
			break
		}
		value := item[8 : 8+valueLen]
		itemLenBytes := 4 + 4 + valueLen

		switch {
		case name == "*ptr":
			f.decodePtrTag(e, value, tagLen)
		case name == "*dmy":
			// padding, ignored
		case name == "deti":
			f.decodeDetiTag(e, value, tagLen)
		case len(name) == 4 && name[:3] == "est" && item[3] >= 1 && item[3] <= 64:
			f.decodeEstTag(e, value, tagLen)
		case name == "info":
			e.logf("info TAG item %q", string(value))
		case name == "nasc", name == "frpd":
			// network-adapted signalling / frame padding, ignored
		default:
			e.logf("ignored unsupported TAG item %q (%d bits)", name, tagLen)
		}

		i += itemLenBytes
	}
}

func (f *ediFormat) decodePtrTag(e *engine, value []byte, tagLen int) {
	if tagLen != 64 {
		e.logf("ignored *ptr TAG item with wrong length (%d bits)", tagLen)
		return
	}
	protocolType := string(value[:4])
	if protocolType != "DETI" {
		e.logf("unsupported protocol type %q in *ptr TAG item", protocolType)
	}
	major := int(value[4])<<8 | int(value[5])
	minor := int(value[6])<<8 | int(value[7])
	if major != 0 || minor != 0 {
		e.logf("unsupported major/minor revision 0x%04X/0x%04X in *ptr TAG item", major, minor)
	}
}

func (f *ediFormat) decodeDetiTag(e *engine, value []byte, tagLen int) {
	if len(value) < 4 {
		e.logf("ignored truncated deti TAG item")
		return
	}
	atstf := value[0]&0x80 != 0
	ficf := value[0]&0x40 != 0

	if value[2] != 0xFF {
		e.logf("EDI AF packet with STAT = 0x%02X", value[2])
		return
	}

	mid := int(value[3]) >> 6
	ficLen := 0
	if ficf {
		if mid == 3 {
			ficLen = 128
		} else {
			ficLen = 96
		}
	}

	atstLen := 0
	if atstf {
		atstLen = 8
	}
	calcedBits := (2 + 4 + atstLen + ficLen) * 8
	if tagLen != calcedBits {
		e.logf("ignored deti TAG item with wrong length (%d bits)", tagLen)
		return
	}

	if ficLen > 0 {
		off := 2 + 4 + atstLen
		e.observer.ProcessFIC(value[off : off+ficLen])
	}
}

func (f *ediFormat) decodeEstTag(e *engine, value []byte, tagLen int) {
	if tagLen < 3*8 {
		e.logf("ignored est<n> TAG item with too short length (%d bits)", tagLen)
		return
	}
	if e.subChanID < 0 {
		return
	}
	subChanID := int(value[0]) >> 2
	if subChanID != e.subChanID {
		return
	}
	data := value[3:]
	e.observer.ProcessSubChannel(data)
	e.reportUntouched(data)
}
