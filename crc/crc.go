/*
NAME
  crc.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package crc implements the three CRC-16 variants used across the DAB
// ensemble transport, FIC and PAD layers: CRC-16/CCITT (ETSI EN 300 401
// Annex A, used for FIB, ETI header/MST, X-PAD data groups and dynamic
// label segments), CRC-16/IBM and the DAB Fire Code (used by the
// Reed-Solomon outer code framing, exposed here for completeness).
//
// All three share the same bit-serial definition and differ only in their
// initial value, final XOR and generator polynomial, so a single engine
// type serves all three via a table-driven (LUT) implementation.
package crc

// Engine computes a 16-bit CRC over a byte slice using a reflect-free,
// MSB-first bit convention and a 256-entry lookup table, matching the
// polynomial division used throughout the DAB standard.
type Engine struct {
	poly          uint16
	initialInvert bool
	finalInvert   bool
	lut           [256]uint16
}

// Len is the length in bytes of a stored CRC-16 trailer, as consumed by
// DataGroup::CheckCRC/CalcCRC::CRCLen in the original decoder.
const Len = 2

// NewEngine builds a CRC engine for the given generator polynomial and
// invert flags. initialInvert sets the register to 0xFFFF before
// processing (0x0000 otherwise); finalInvert complements the result.
func NewEngine(poly uint16, initialInvert, finalInvert bool) *Engine {
	e := &Engine{poly: poly, initialInvert: initialInvert, finalInvert: finalInvert}
	e.fillLUT()
	return e
}

func (e *Engine) fillLUT() {
	for b := 0; b < 256; b++ {
		crc := uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ e.poly
			} else {
				crc <<= 1
			}
		}
		e.lut[b] = crc
	}
}

// Calc returns the CRC of data under this engine's configuration.
func (e *Engine) Calc(data []byte) uint16 {
	crc := e.initial()
	for _, b := range data {
		crc = e.processByte(crc, b)
	}
	return e.finalize(crc)
}

// CheckTrailing reports whether the last two bytes of data (big-endian)
// equal the CRC of the preceding bytes, the common "stored CRC trailer"
// shape used by FIB blocks, ETI header/MST checks and X-PAD DL segments.
func (e *Engine) CheckTrailing(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	payload := data[:len(data)-2]
	stored := uint16(data[len(data)-2])<<8 | uint16(data[len(data)-1])
	return e.Calc(payload) == stored
}

func (e *Engine) initial() uint16 {
	if e.initialInvert {
		return 0xFFFF
	}
	return 0x0000
}

func (e *Engine) processByte(crc uint16, b byte) uint16 {
	return (crc << 8) ^ e.lut[byte(crc>>8)^b]
}

func (e *Engine) finalize(crc uint16) uint16 {
	if e.finalInvert {
		return ^crc
	}
	return crc
}

// The three standing engines used across the transport/FIC/PAD layers.
// Polynomial values and invert flags are fixed by ETSI EN 300 401.
var (
	// CCITT is used for FIB CRC, ETI header/MST CRC, X-PAD data group CRC
	// and dynamic label segment CRC. (16, 12, 5, 0)
	CCITT = NewEngine(0x1021, true, true)

	// IBM mirrors the original decoder's second named CRC instance,
	// defined alongside CCITT and FireCode but, like FireCode, not
	// exercised by any of the call sites this module implements.
	// (16, 15, 2, 0)
	IBM = NewEngine(0x8005, true, false)

	// FireCode is the outer Reed-Solomon frame check used by some
	// transport framings; exposed for completeness even though the
	// receiver pipeline itself only consumes already-deframed ETI/EDI.
	// (16, 14, 13, 12, 11, 5, 3, 2, 1, 0)
	FireCode = NewEngine(0x782F, false, false)
)
