/*
NAME
  motdecoder.go

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

const motMaxLen = 8192

// motDecoder reassembles one MOT X-PAD data group: its length is
// announced in advance by a DGLI, and its CRC-16/CCITT trailer is
// validated before the group is handed to the MOT manager.
type motDecoder struct {
	dataGroup
	length    int
	completed []byte
}

func newMOTDecoder() *motDecoder {
	d := &motDecoder{dataGroup: newDataGroup(motMaxLen)}
	d.reset(0)
	return d
}

// setLen primes the decoder with the length a preceding DGLI
// announced; it is only meaningful for the immediately following
// start-of-group subfield.
func (d *motDecoder) setLen(length int) {
	d.length = length
}

func (d *motDecoder) processDataSubfield(start bool, data []byte) bool {
	needed := d.length
	if !start {
		needed = d.sizeNeeded
	}
	return d.dataGroup.processDataSubfield(start, data, needed, d.decode)
}

func (d *motDecoder) decode() bool {
	if d.length < 2 { // shorter than a bare CRC trailer can never be valid
		return false
	}
	if !d.checkCRC(d.length - 2) {
		d.reset(0)
		return false
	}
	d.completed = append([]byte{}, d.raw[:d.length]...)
	d.reset(0)
	return true
}

// dataGroupBytes returns the last successfully reassembled group, CRC
// trailer included, exactly as handed to mot.Manager.
func (d *motDecoder) dataGroupBytes() []byte {
	return d.completed
}
