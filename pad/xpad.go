/*
NAME
  xpad.go

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

// xpadCI is one X-PAD Content Indicator: the application type of a
// data subfield and its byte length.
type xpadCI struct {
	length int
	typ    int // -1 means "none"
}

// ciLens are the 8 possible variable-size X-PAD subfield lengths, one
// per 3-bit length index in a CI byte's top bits.
var ciLens = [8]int{4, 6, 8, 12, 16, 24, 32, 48}

func newCI(raw byte) xpadCI {
	return xpadCI{length: ciLens[raw>>5], typ: int(raw & 0x1F)}
}

// buildCIList parses the X-PAD Content Indicator list for one frame,
// per F-PAD type/X-PAD indicator/CI-flag, mirroring PADDecoder::Process's
// CI construction. ciHeaderLen is the number of leading xpad bytes the
// CI list itself occupies (0 when a previous CI was reused, since no
// CI bytes were actually present this frame). ok is false only when
// xpad is too short to hold the announced CI bytes; an empty cis with
// ok true means "nothing to process this frame" (short-form end
// marker, non-type-00 F-PAD, or no previous CI to reuse).
func buildCIList(fpadType, xpadInd int, ciFlag bool, prev xpadCI, xpad []byte) (cis []xpadCI, ciHeaderLen int, ok bool) {
	if fpadType != 0b00 {
		return nil, 0, true
	}

	if ciFlag {
		switch xpadInd {
		case 0b01: // short X-PAD: one fixed-length CI
			if len(xpad) < 1 {
				return nil, 0, false
			}
			typ := int(xpad[0] & 0x1F)
			if typ != 0x00 { // end marker carries no CI
				cis = append(cis, xpadCI{length: 3, typ: typ})
				ciHeaderLen = 1
			}
		case 0b10: // variable size X-PAD: up to 4 CIs, end marker stops early
			for i := 0; i < 4; i++ {
				if len(xpad) < i+1 {
					return nil, 0, false
				}
				ciHeaderLen++
				ci := newCI(xpad[i])
				if ci.typ == 0x00 {
					break
				}
				cis = append(cis, ci)
			}
		}
	} else {
		switch xpadInd {
		case 0b01, 0b10:
			if prev.typ != -1 {
				cis = append(cis, prev)
			}
		}
	}
	return cis, ciHeaderLen, true
}

// totalLen sums the announced length of a CI list.
func totalLen(cis []xpadCI) int {
	n := 0
	for _, ci := range cis {
		n += ci.length
	}
	return n
}
