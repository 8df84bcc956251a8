/*
NAME
  dynamiclabel.go

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

import (
	"github.com/dablin-go/dablin/charset"
	"github.com/dablin-go/dablin/crc"
)

const (
	dlSegMaxLen = 16
	dlMaxLen    = 128
	dlMaxGroup  = 2 + dlSegMaxLen + 2 // prefix + segment + CRC
)

// Label is the reassembled dynamic label text plus any DL Plus tagging
// carried alongside it.
type Label struct {
	Charset    int
	Text       string
	DLPlusItemToggle  bool
	DLPlusItemRunning bool
	DLPlusObjects     []DLPlusObject
}

// DLPlusObject is one tagged substring of a dynamic label's text, per
// ETSI TS 102 980 (DL Plus): a content-type classification plus the
// substring of the label text it covers.
type DLPlusObject struct {
	ContentType int
	Text        string
}

// dlPlusContentTypeNames are DL Plus's 64 content-type tag names.
var dlPlusContentTypeNames = [...]string{
	"DUMMY",
	"ITEM.TITLE", "ITEM.ALBUM", "ITEM.TRACKNUMBER", "ITEM.ARTIST", "ITEM.COMPOSITION", "ITEM.MOVEMENT", "ITEM.CONDUCTOR", "ITEM.COMPOSER", "ITEM.BAND", "ITEM.COMMENT", "ITEM.GENRE",
	"INFO.NEWS", "INFO.NEWS.LOCAL", "INFO.STOCKMARKET", "INFO.SPORT", "INFO.LOTTERY", "INFO.HOROSCOPE", "INFO.DAILY_DIVERSION", "INFO.HEALTH", "INFO.EVENT", "INFO.SCENE", "INFO.CINEMA", "INFO.TV", "INFO.DATE_TIME", "INFO.WEATHER", "INFO.TRAFFIC", "INFO.ALARM", "INFO.ADVERTISEMENT", "INFO.URL", "INFO.OTHER",
	"STATIONNAME.SHORT", "STATIONNAME.LONG",
	"PROGRAMME.NOW", "PROGRAMME.NEXT", "PROGRAMME.PART", "PROGRAMME.HOST", "PROGRAMME.EDITORIAL_STAFF", "PROGRAMME.FREQUENCY", "PROGRAMME.HOMEPAGE", "PROGRAMME.SUBCHANNEL",
	"PHONE.HOTLINE", "PHONE.STUDIO", "PHONE.OTHER",
	"SMS.STUDIO", "SMS.OTHER",
	"EMAIL.HOTLINE", "EMAIL.STUDIO", "EMAIL.OTHER",
	"MMS.OTHER",
	"CHAT", "CHAT.CENTER",
	"VOTE.QUESTION", "VOTE.CENTRE",
	"(reserved)", "(reserved)",
	"(private class)", "(private class)", "(private class)",
	"DESCRIPTOR.PLACE", "DESCRIPTOR.APPOINTMENT", "DESCRIPTOR.IDENTIFIER", "DESCRIPTOR.PURCHASE", "DESCRIPTOR.GET_DATA",
}

// DLPlusContentTypeName names a DL Plus content-type tag value.
func DLPlusContentTypeName(value int) string {
	if value >= 0 && value < len(dlPlusContentTypeNames) {
		return dlPlusContentTypeNames[value]
	}
	return "(reserved)"
}

// dlSeg is one reassembled dynamic-label segment: its 2-byte prefix
// (toggle/first/last/command flags plus, for segment 0, the charset)
// and its character payload.
type dlSeg struct {
	prefix [2]byte
	chars  []byte
}

func (s dlSeg) toggle() bool    { return s.prefix[0]&0x80 != 0 }
func (s dlSeg) segNum() int     { return int(s.prefix[1] & 0x07) }
func (s dlSeg) last() bool      { return s.prefix[0]&0x20 != 0 }
func (s dlSeg) dlPlusLink() bool { return s.prefix[0]&0x40 != 0 }
func (s dlSeg) charsetCode() int { return int(s.prefix[1] >> 4) }

// dlSegReassembler gathers a run of dlSeg values keyed by segment
// number into a complete label once segments 0..k are present with
// segment k marked last, mirroring DL_SEG_REASSEMBLER.
type dlSegReassembler struct {
	segs     map[int]dlSeg
	labelRaw []byte
}

func newDLSegReassembler() *dlSegReassembler {
	return &dlSegReassembler{segs: make(map[int]dlSeg)}
}

func (r *dlSegReassembler) reset() {
	r.segs = make(map[int]dlSeg)
	r.labelRaw = nil
}

func (r *dlSegReassembler) toggle() (bool, bool) {
	for _, s := range r.segs {
		return s.toggle(), true
	}
	return false, false
}

func (r *dlSegReassembler) dlPlusLink() (bool, bool) {
	for _, s := range r.segs {
		return s.dlPlusLink(), true
	}
	return false, false
}

// addSegment stores seg, clearing the cache first if a different
// toggle value is already present, and reports whether the label is
// now complete.
func (r *dlSegReassembler) addSegment(seg dlSeg) bool {
	if t, ok := r.toggle(); ok && t != seg.toggle() {
		r.segs = make(map[int]dlSeg)
	}
	if _, ok := r.segs[seg.segNum()]; ok {
		return false
	}
	r.segs[seg.segNum()] = seg
	return r.checkForCompleteLabel()
}

func (r *dlSegReassembler) checkForCompleteLabel() bool {
	segs := 0
	for i := 0; i < 8; i++ {
		s, ok := r.segs[i]
		if !ok {
			return false
		}
		segs++
		if s.last() {
			break
		}
		if i == 7 {
			return false
		}
	}
	r.labelRaw = r.labelRaw[:0]
	for i := 0; i < segs; i++ {
		r.labelRaw = append(r.labelRaw, r.segs[i].chars...)
	}
	return true
}

// dynamicLabelDecoder reassembles dynamic-label and DL Plus data
// groups into a Label, mirroring DynamicLabelDecoder.
type dynamicLabelDecoder struct {
	dataGroup
	dlSR     *dlSegReassembler
	dlPlusSR *dlSegReassembler
	label    Label
}

func newDynamicLabelDecoder() *dynamicLabelDecoder {
	d := &dynamicLabelDecoder{
		dataGroup: newDataGroup(dlMaxGroup),
		dlSR:      newDLSegReassembler(),
		dlPlusSR:  newDLSegReassembler(),
	}
	d.reset(2) // 2-byte prefix read first to learn the real field length
	return d
}

func (d *dynamicLabelDecoder) processDataSubfield(start bool, data []byte) bool {
	return d.dataGroup.processDataSubfield(start, data, 2, d.decode)
}

func (d *dynamicLabelDecoder) decode() bool {
	if len(d.raw) < 2 {
		return false
	}
	command := d.raw[0]&0x10 != 0

	var fieldLen int
	cmdRemoveLabel := false
	cmdDLPlus := false

	if command {
		switch d.raw[0] & 0x0F {
		case 0x01:
			cmdRemoveLabel = true
		case 0x02:
			cmdDLPlus = true
			if len(d.raw) < 2 {
				return false
			}
			fieldLen = int(d.raw[1]&0x0F) + 1
		default:
			d.reset(2)
			return false
		}
	} else {
		fieldLen = int(d.raw[0]&0x0F) + 1
	}

	realLen := 2 + fieldLen
	if !d.ensureDataGroupSize(realLen + crc.Len) {
		return false
	}
	if !d.checkCRC(realLen) {
		d.reset(2)
		return false
	}

	if cmdRemoveLabel {
		d.reset(2)
		d.label = Label{}
		return true
	}

	seg := dlSeg{chars: append([]byte{}, d.raw[2:2+fieldLen]...)}
	copy(seg.prefix[:], d.raw[:2])

	currentFlag := seg.toggle()
	if cmdDLPlus {
		currentFlag = seg.dlPlusLink()
	}

	if t, ok := d.dlSR.toggle(); ok && t != currentFlag {
		d.dlSR.reset()
	}
	if l, ok := d.dlPlusSR.dlPlusLink(); ok && l != currentFlag {
		d.dlPlusSR.reset()
	}

	d.reset(2)

	if cmdDLPlus {
		if !d.dlPlusSR.addSegment(seg) {
			return false
		}
		if !d.dlSR.checkForCompleteLabel() {
			return false
		}
	} else {
		if !d.dlSR.addSegment(seg) {
			return false
		}
	}

	d.label = Label{}
	d.label.Charset = d.dlSR.segs[0].charsetCode()
	text, err := charset.ToUTF8(d.dlSR.labelRaw, charset.Code(d.label.Charset), false)
	if err == nil {
		d.label.Text = text
	}

	if d.dlPlusSR.checkForCompleteLabel() {
		d.appendDLPlus()
	}

	return true
}

// appendDLPlus decodes the reassembled DL Plus tag command and
// attaches the resulting objects to the current label.
func (d *dynamicLabelDecoder) appendDLPlus() {
	cmd := d.dlPlusSR.labelRaw
	if len(cmd) < 1 || cmd[0]>>4 != 0b0000 {
		return
	}

	d.label.DLPlusItemToggle = cmd[0]&0x08 != 0
	d.label.DLPlusItemRunning = cmd[0]&0x04 != 0
	nt := int(cmd[0] & 0x03)

	labelText := []rune(d.label.Text)

	for i := 0; i <= nt; i++ {
		off := 1 + i*3
		if off+3 > len(cmd) {
			return
		}
		contentType := int(cmd[off] & 0x7F)
		startMarker := int(cmd[off+1] & 0x7F)
		lengthMarker := int(cmd[off+2] & 0x7F)

		var text string
		if contentType != 0 {
			text = runeSubstr(labelText, startMarker, lengthMarker+1)
		}
		d.label.DLPlusObjects = append(d.label.DLPlusObjects, DLPlusObject{ContentType: contentType, Text: text})
	}
}

// runeSubstr returns the substring of runes starting at start with
// the given length, clamped to the available range.
func runeSubstr(runes []rune, start, length int) string {
	if start >= len(runes) {
		return ""
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}
