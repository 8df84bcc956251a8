/*
NAME
  convert.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package fic

import (
	"fmt"
	"strings"

	"github.com/dablin-go/dablin/charset"
	"github.com/dablin-go/dablin/ensemble"
)

// ConvertLabelToUTF8 decodes a DAB label to UTF-8 and trims the
// trailing spaces ETSI EN 300 401 pads 16-byte labels with.
func ConvertLabelToUTF8(label ensemble.Label) string {
	s, err := charset.ToUTF8(label.Chars[:], charset.Code(label.Charset), false)
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, " ")
}

// DeriveShortLabelUTF8 extracts the abbreviated label from a full
// label's UTF-8 text using its short-label bitmask: bit 15-i of the
// mask selects rune i of the long label (trailing spaces already
// discarded by the caller, as in the original decoder).
func DeriveShortLabelUTF8(longLabel string, shortLabelMask uint16) string {
	var b strings.Builder
	i := 0
	for _, r := range longLabel {
		if shortLabelMask&(0x8000>>uint(i)) != 0 {
			b.WriteRune(r)
		}
		i++
	}
	return b.String()
}

// LanguageName converts an ISO 639 DAB language code to its English
// name, per ETSI TS 101 756 Annex C.
func LanguageName(value int) string {
	switch {
	case value >= 0x00 && value <= 0x2B:
		return languages0x00to0x2B[value]
	case value == 0x40:
		return "background sound/clean feed"
	case value >= 0x45 && value <= 0x7F:
		return languages0x7Fdownto0x45[0x7F-value]
	default:
		return fmt.Sprintf("unknown (%d)", value)
	}
}

// LTOString formats a local time offset (in half-hour steps) as a
// signed "+HH:MM" string.
func LTOString(value int) string {
	sign := "+"
	if value < 0 {
		sign = "-"
		value = -value
	}
	minutes := 0
	if value%2 != 0 {
		minutes = 30
	}
	return fmt.Sprintf("%s%02d:%02d", sign, value/2, minutes)
}

// InternationalTableIDName names the FIG 0/9 international table ID,
// which selects between the RDS and RBDS programme-type tables.
func InternationalTableIDName(value int) string {
	switch value {
	case 0x01:
		return "RDS PTY"
	case 0x02:
		return "RBDS PTY"
	default:
		return "unknown"
	}
}

// PTYName names a programme type code under the given international
// table ID (0x01 selects PTYNameRDS, 0x02 selects PTYNameRBDS).
func PTYName(value, internationalTableID int) string {
	switch internationalTableID {
	case 0x01:
		if value >= 0 && value < len(PTYNameRDS) {
			return PTYNameRDS[value]
		}
		return "(not used)"
	case 0x02:
		if value >= 0 && value < len(PTYNameRBDS) {
			return PTYNameRBDS[value]
		}
		return "(not used)"
	default:
		return "(unknown)"
	}
}

// ASuTypeName names a FIG 0/18/0/19 announcement-support type.
func ASuTypeName(value int) string {
	if value >= 0 && value < len(asuTypeNames) {
		return asuTypeNames[value]
	}
	return fmt.Sprintf("unknown (%d)", value)
}
