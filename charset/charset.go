/*
NAME
  charset.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package charset converts DAB and MOT text fields to UTF-8. The four
// charset codes that appear in the high nibble of a DAB/MOT character
// field are: EBU Latin based (0b0000), ISO/IEC 8859-1 (0b0100, MOT
// only), UCS-2 BE (0b0110, DAB only) and UTF-8 (0b1111). Any other
// code is unsupported and yields an error.
package charset

import (
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// Code identifies one of the character sets a DAB/MOT text field may be
// tagged with.
type Code int

const (
	EBULatin Code = 0b0000
	ISO88591 Code = 0b0100
	UCS2BE   Code = 0b0110
	UTF8     Code = 0b1111
)

// Name returns the human-readable charset name the original receiver
// reports alongside decoded text, e.g. for diagnostic logging.
func (c Code) Name(mot bool) string {
	switch c {
	case EBULatin:
		return "EBU Latin based"
	case ISO88591:
		if mot {
			return "ISO-8859-1"
		}
	case UCS2BE:
		if !mot {
			return "UCS-2BE"
		}
	case UTF8:
		return "UTF-8"
	}
	return fmt.Sprintf("charset %d", int(c))
}

// ToUTF8 decodes data (tagged with charset code c) to a UTF-8 string.
// mot distinguishes the MOT-only and DAB-only charset codes, since the
// DAB and MOT label fields share the same 4-bit charset encoding but
// restrict it to disjoint subsets. Control bytes NULL (0x00), PLB
// (0x0A), EoH (0x0B) and PWB (0x1F) are stripped before conversion, as
// they are structural delimiters rather than displayable characters.
func ToUTF8(data []byte, c Code, mot bool) (string, error) {
	cleaned := stripControlBytes(data)

	switch {
	case c == EBULatin:
		return ebuToUTF8(cleaned), nil
	case c == ISO88591 && mot:
		return charmap.ISO8859_1.NewDecoder().String(string(cleaned))
	case c == UCS2BE && !mot:
		return ucs2BEToUTF8(cleaned)
	case c == UTF8:
		return string(cleaned), nil
	default:
		kind := "DAB"
		if mot {
			kind = "MOT"
		}
		return "", fmt.Errorf("charset: unsupported %s charset %d", kind, int(c))
	}
}

func stripControlBytes(data []byte) []byte {
	cleaned := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case 0x00, 0x0A, 0x0B, 0x1F:
			continue
		default:
			cleaned = append(cleaned, b)
		}
	}
	return cleaned
}

func ucs2BEToUTF8(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("charset: UCS-2BE data has odd length %d", len(data))
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}

// ebuToUTF8 converts a byte slice in the EBU Latin based repertoire
// (ETSI TS 101 756 Annex C) to UTF-8, one rune per input byte.
func ebuToUTF8(data []byte) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		out = append(out, ebuToRune(b))
	}
	return string(out)
}

// ebuToRune converts a single EBU Latin based byte. Bytes 0x00-0x1F and
// 0x7B-0xFF are looked up in tables (a 0x00-0x1F byte with no character
// yields 0); of the bytes in between, four are 1:1 special cases and the
// rest are passed through unmodified as they are already printable
// ASCII-range characters in this repertoire.
func ebuToRune(b byte) rune {
	if b <= 0x1F {
		if r, ok := ebuLow[b]; ok {
			return r
		}
		return 0
	}
	if b >= 0x7B {
		return ebuHigh[int(b)-0x7B]
	}
	switch b {
	case 0x24:
		return 'ł'
	case 0x5C:
		return 'Ů'
	case 0x5E:
		return 'Ł'
	case 0x60:
		return 'Ą'
	}
	return rune(b)
}

// ebuLow holds the 0x00-0x1F EBU Latin based mappings; the "no char"
// entries of the original table are absent, and ebuToRune yields 0 for
// them.
var ebuLow = map[byte]rune{
	0x01: 'Ę', 0x02: 'Į', 0x03: 'Ų', 0x04: 'Ă',
	0x05: 'Ė', 0x06: 'Ď', 0x07: 'Ș', 0x08: 'Ț',
	0x09: 'Ċ', 0x0C: 'Ġ', 0x0D: 'Ĺ', 0x0E: 'Ż',
	0x0F: 'Ń', 0x10: 'ą', 0x11: 'ę', 0x12: 'į',
	0x13: 'ų', 0x14: 'ă', 0x15: 'ė', 0x16: 'ď',
	0x17: 'ș', 0x18: 'ț', 0x19: 'ċ', 0x1A: 'Ň',
	0x1B: 'Ě', 0x1C: 'ġ', 0x1D: 'ĺ', 0x1E: 'ż',
}

// ebuHigh covers 0x7B-0xFF, indexed by b-0x7B.
var ebuHigh = [...]rune{
	'«', 'ů', '»', 'Ľ', 'Ħ',
	'á', 'à', 'é', 'è', 'í', 'ì', 'ó', 'ò', 'ú', 'ù', 'Ñ', 'Ç', 'Ş', 'ß', '¡', 'Ÿ',
	'â', 'ä', 'ê', 'ë', 'î', 'ï', 'ô', 'ö', 'û', 'ü', 'ñ', 'ç', 'ş', 'ğ', 'ı', 'ÿ',
	'Ķ', 'Ņ', '©', 'Ģ', 'Ğ', 'ě', 'ň', 'ő', 'Ő', '€', '£', '$', 'Ā', 'Ē', 'Ī', 'Ū',
	'ķ', 'ņ', 'Ļ', 'ģ', 'ļ', 'İ', 'ń', 'ű', 'Ű', '¿', 'ľ', '°', 'ā', 'ē', 'ī', 'ū',
	'Á', 'À', 'É', 'È', 'Í', 'Ì', 'Ó', 'Ò', 'Ú', 'Ù', 'Ř', 'Č', 'Š', 'Ž', 'Ð', 'Ŀ',
	'Â', 'Ä', 'Ê', 'Ë', 'Î', 'Ï', 'Ô', 'Ö', 'Û', 'Ü', 'ř', 'č', 'š', 'ž', 'đ', 'ŀ',
	'Ã', 'Å', 'Æ', 'Œ', 'ŷ', 'Ý', 'Õ', 'Ø', 'Þ', 'Ŋ', 'Ŕ', 'Ć', 'Ś', 'Ź', 'Ť', 'ð',
	'ã', 'å', 'æ', 'œ', 'ŵ', 'ý', 'õ', 'ø', 'þ', 'ŋ', 'ŕ', 'ć', 'ś', 'ź', 'ť', 'ħ',
}
