/*
NAME
  object.go

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

// object pairs a header entity and a body entity into one MOT object,
// mirroring MOTObject: it is shown exactly once, after both entities
// finish and the header has been successfully parsed.
type object struct {
	header *entity
	body   *entity

	headerReceived bool
	shown          bool

	result File
}

func newObject() *object {
	return &object{
		header: newEntity(),
		body:   newEntity(),
		result: newFile(),
	}
}

func (o *object) addSeg(dgTypeHeader bool, segNumber int, last bool, data []byte) {
	if dgTypeHeader {
		o.header.addSeg(segNumber, last, data)
	} else {
		o.body.addSeg(segNumber, last, data)
	}
}

// isToBeShown reports whether both entities are now complete, parses
// the header once on the transition, and emits true exactly once.
func (o *object) isToBeShown() bool {
	if o.shown {
		return false
	}
	if !o.header.isFinished() || !o.body.isFinished() {
		return false
	}
	if !o.headerReceived {
		if !o.parseCheckHeader() {
			return false
		}
		o.headerReceived = true
	}
	o.result.Data = o.body.data()
	o.shown = true
	return true
}

func (o *object) file() File {
	return o.result
}

// Header-extension parameter IDs (ETSI EN 301 234 clause 6.2, ETSI
// TS 101 499 clause 6.2 for the slideshow-specific ones).
const (
	paramContentName    = 0x04
	paramTriggerTime    = 0x05
	paramCategoryTitle  = 0x26
	paramClickThroughURL = 0x27
)

// parseCheckHeader decodes the header entity's reassembled bytes: the
// 56-bit header core (28-bit body size, 13-bit header size, 6-bit
// content type, 9-bit content sub-type) followed by a sequence of
// TLV-encoded header-extension parameters, stopping at the announced
// header size.
func (o *object) parseCheckHeader() bool {
	raw := o.header.data()
	r := newBitReader(raw)

	bodySize, ok := r.getBits(28)
	if !ok {
		return false
	}
	headerSize, ok := r.getBits(13)
	if !ok {
		return false
	}
	contentType, ok := r.getBits(6)
	if !ok {
		return false
	}
	contentSubType, ok := r.getBits(9)
	if !ok {
		return false
	}
	if !r.byteAligned() {
		return false
	}
	if headerSize > len(raw) {
		return false
	}

	o.result.BodySize = bodySize
	o.result.ContentType = contentType
	o.result.ContentSubType = contentSubType

	o.parseHeaderExtensions(raw[r.byteOffset():headerSize])
	return true
}

// parseHeaderExtensions walks the TLV-encoded header-extension
// parameters: a 2-bit PLI selects the data-field length (0, 1, 4 bytes
// or a variable length field), followed by a 6-bit parameter ID.
func (o *object) parseHeaderExtensions(ext []byte) {
	pos := 0
	for pos < len(ext) {
		pli := int(ext[pos]>>6) & 0x03
		paramID := int(ext[pos] & 0x3F)
		pos++

		var dataLen int
		switch pli {
		case 0b00:
			dataLen = 0
		case 0b01:
			dataLen = 1
		case 0b10:
			dataLen = 4
		case 0b11:
			if pos >= len(ext) {
				return
			}
			dataLen = int(ext[pos] & 0x7F)
			pos++
			for ext[pos-1]&0x80 != 0 {
				if pos >= len(ext) {
					return
				}
				dataLen = dataLen<<7 | int(ext[pos]&0x7F)
				pos++
			}
		}
		if pos+dataLen > len(ext) {
			return
		}
		data := ext[pos : pos+dataLen]
		pos += dataLen

		switch paramID {
		case paramContentName:
			if len(data) >= 1 {
				o.result.ContentNameCharset = int(data[0] >> 4)
				o.result.ContentName = string(data[1:])
			}
		case paramTriggerTime:
			o.result.TriggerTimeNow = dataLen == 0
		case paramCategoryTitle:
			o.result.CategoryTitle = string(data)
		case paramClickThroughURL:
			o.result.ClickThroughURL = string(data)
		}
	}
}
