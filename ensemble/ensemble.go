/*
NAME
  ensemble.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package ensemble holds the data model the FIC decoder accumulates as
// it observes FIG 0 and FIG 1 groups across many frames: the ensemble
// itself, its declared sub-channels, services and their components, and
// the UTC date/time the ensemble broadcasts. None of these types decode
// anything themselves; they are the shared vocabulary between fic,
// receiver and the reference CLI.
package ensemble

import "time"

// Label is a 16-byte DAB label together with the charset it is encoded
// in and the short-label bitmask (ETSI EN 300 401 clause 5.2.2.3) that
// picks which of its characters form the abbreviated label.
type Label struct {
	Charset        int
	Chars          [16]byte
	ShortLabelMask uint16
}

// None reports whether no label has been received yet.
func (l Label) None() bool {
	return l.Charset == CharsetNone
}

// CharsetNone marks a Label as not-yet-received, mirroring
// FIC_LABEL::charset_none in the original decoder. A zero-value Label
// has charset 0 (EBU Latin based) and does not report None().
const CharsetNone = -1

// SubChannel describes a sub-channel's MSC placement and protection as
// declared by FIG 0/1, plus the language FIG 0/5 may add.
type SubChannel struct {
	Start    int    // Start address, in capacity units.
	Size     int    // Size, in capacity units.
	// ProtectionLabel is a short human string like "EEP 3-A" or "UEP 4".
	ProtectionLabel string
	Bitrate         int // kbit/s, -1 if not yet known.
	Language        int // ISO 639 language code, LanguageNone if absent.
}

const (
	BitrateNone  = -1
	LanguageNone = -1
)

// None reports whether this sub-channel has neither a protection label
// (from FIG 0/1) nor a language (from FIG 0/5).
func (s SubChannel) None() bool {
	return s.ProtectionLabel == "" && s.Language == LanguageNone
}

// AudioService identifies an MSC audio service component: its
// sub-channel and whether it carries DAB (MPEG Layer II) or DAB+
// (HE-AAC v2 superframes).
type AudioService struct {
	SubChID int
	DABPlus bool
}

// SubChIDNone marks the absence of an audio service component.
const SubChIDNone = -1

// None reports whether this is the zero/unset audio service.
func (a AudioService) None() bool {
	return a.SubChID == SubChIDNone
}

// AnnouncementCluster is one entry of FIG 0/19: the announcement-type
// flags active for a cluster ID and the sub-channel to switch to.
type AnnouncementCluster struct {
	SwitchFlags uint16
	SubChID     int
}

// Ensemble is the FIG 1/0 ensemble identity plus the FIG 0/9 country/LTO
// fields and the FIG 0/19 announcement-switching clusters keyed by
// cluster ID.
type Ensemble struct {
	EID                  int
	Label                Label
	ExtendedCountryCode  int
	LocalTimeOffset      int // In half-hour steps, LTONone if unknown.
	InternationalTableID int
	AnnouncementClusters map[uint8]AnnouncementCluster
}

const (
	EIDNone                  = -1
	ExtendedCountryCodeNone  = -1
	LocalTimeOffsetNone      = -100
	InternationalTableIDNone = -1
)

// None reports whether an ensemble identity has been received yet.
func (e Ensemble) None() bool {
	return e.EID == EIDNone
}

// ListedService is the flattened, display-ready view of one service
// component that the FIC decoder emits to its observer: either the
// primary component of a service (SCIdS == SCIdSNone) or one of its
// secondary components.
type ListedService struct {
	SID          int
	SCIdS        int // SCIdSNone for the primary component.
	SubChannel   SubChannel
	AudioService AudioService
	Label        Label
	PTYStatic    int
	PTYDynamic   int
	ASuFlags     uint16
	ClusterIDs   map[uint8]struct{}

	// PriCompSubChID is the sub-channel of this service's primary
	// component; it is carried along only to sort listed services the
	// way the original receiver orders its service catalogue.
	PriCompSubChID int

	// MultiComps reports whether this service has more than one
	// listed component (primary plus at least one secondary).
	MultiComps bool

	// SLSAppType is the X-PAD application type carrying this service's
	// slideshow, or SLSAppTypeNone if it has none.
	SLSAppType int
}

const (
	SIDNone        = -1
	SCIdSNone      = -1
	PTYNone        = -1
	SLSAppTypeNone = -1
)

// HasSLS reports whether this service component advertises a slideshow.
func (s ListedService) HasSLS() bool {
	return s.SLSAppType != SLSAppTypeNone
}

// IsPrimary reports whether this is a service's primary component.
func (s ListedService) IsPrimary() bool {
	return s.SCIdS == SCIdSNone
}

// Less orders listed services the way the original catalogue sorts
// them: by primary-component sub-channel, then SID, then SCIdS.
func (s ListedService) Less(o ListedService) bool {
	if s.PriCompSubChID != o.PriCompSubChID {
		return s.PriCompSubChID < o.PriCompSubChID
	}
	if s.SID != o.SID {
		return s.SID < o.SID
	}
	return s.SCIdS < o.SCIdS
}

// DateTime is the ensemble's broadcast UTC date/time from FIG 0/10,
// with millisecond precision in the long form and MillisecondsNone in
// the short form.
type DateTime struct {
	time.Time
	Milliseconds int
}

const MillisecondsNone = -1

// None reports whether a date/time has been received yet.
func (d DateTime) None() bool {
	return d.Time.IsZero()
}

// HasMilliseconds reports whether this is long-form date/time data.
func (d DateTime) HasMilliseconds() bool {
	return d.Milliseconds != MillisecondsNone
}

// WithLocalTimeOffset returns the time shifted by the ensemble's LTO,
// given in half-hour steps, the way the original receiver applies LTO
// before formatting a d&t string for display.
func (d DateTime) WithLocalTimeOffset(lto int) time.Time {
	return d.Time.Add(time.Duration(lto) * 30 * time.Minute)
}
