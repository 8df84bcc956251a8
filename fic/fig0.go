/*
NAME
  fig0.go

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
	"math"
	"strconv"
	"time"

	"github.com/dablin-go/dablin/ensemble"
)

// fig0Header is the one-byte FIG 0 header: C/N, OE, P/D flags and the
// 5-bit extension number (ETSI EN 300 401 clause 5.2.2.1).
type fig0Header struct {
	currentNext   bool
	otherEnsemble bool
	programmeData bool
	extension     int
}

func parseFIG0Header(b byte) fig0Header {
	return fig0Header{
		currentNext:   b&0x80 != 0,
		otherEnsemble: b&0x40 != 0,
		programmeData: b&0x20 != 0,
		extension:     int(b & 0x1F),
	}
}

func (d *Decoder) processFIG0(data []byte) {
	if len(data) < 1 {
		if d.Logger != nil {
			d.Logger.Warning(pkg + "received empty FIG 0")
		}
		return
	}
	header := parseFIG0Header(data[0])
	data = data[1:]

	// Next-config-change, other-ensemble and data-service FIGs are out
	// of scope: only the current ensemble's programme services matter
	// to a receiver selecting one audio service to play.
	if header.currentNext || header.otherEnsemble || header.programmeData {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch header.extension {
	case 1:
		d.processFIG0_1(data)
	case 2:
		d.processFIG0_2(data)
	case 5:
		d.processFIG0_5(data)
	case 8:
		d.processFIG0_8(data)
	case 9:
		d.processFIG0_9(data)
	case 10:
		d.processFIG0_10(data)
	case 13:
		d.processFIG0_13(data)
	case 17:
		d.processFIG0_17(data)
	case 18:
		d.processFIG0_18(data)
	case 19:
		d.processFIG0_19(data)
	}
}

// processFIG0_1 decodes "Basic sub-channel organization", giving each
// sub-channel's MSC placement (start/size) and error protection.
func (d *Decoder) processFIG0_1(data []byte) {
	for offset := 0; offset+2 <= len(data); {
		subChID := int(data[offset] >> 2)
		startAddress := int(data[offset]&0x03)<<8 | int(data[offset+1])
		offset += 2
		if offset >= len(data) {
			break
		}

		sc := ensemble.SubChannel{Start: startAddress, Bitrate: ensemble.BitrateNone, Language: ensemble.LanguageNone}

		longForm := data[offset]&0x80 != 0
		if longForm {
			if offset+2 > len(data) {
				break
			}
			option := int(data[offset]&0x70) >> 4
			pl := int(data[offset]&0x0C) >> 2
			subChSize := int(data[offset]&0x03)<<8 | int(data[offset+1])

			switch option {
			case 0b000:
				sc.Size = subChSize
				sc.ProtectionLabel = eepLabel(pl, 'A')
				sc.Bitrate = subChSize / eepASizeFactors[pl] * 8
			case 0b001:
				sc.Size = subChSize
				sc.ProtectionLabel = eepLabel(pl, 'B')
				sc.Bitrate = subChSize / eepBSizeFactors[pl] * 32
			}
			offset += 2
		} else {
			tableSwitch := data[offset]&0x40 != 0
			if !tableSwitch {
				idx := int(data[offset] & 0x3F)
				sc.Size = uepSizes[idx]
				sc.ProtectionLabel = uepLabel(uepPLs[idx])
				sc.Bitrate = uepBitrates[idx]
			}
			offset++
		}

		if sc.None() {
			continue
		}
		current, ok := d.subchannels[subChID]
		if ok {
			sc.Language = current.Language // language is set independently by FIG 0/5
		}
		if current != sc {
			d.subchannels[subChID] = sc
			if d.Logger != nil {
				d.Logger.Debug(pkg+"sub-channel updated", "subchid", subChID, "start", sc.Start, "size", sc.Size, "pl", sc.ProtectionLabel, "bitrate", sc.Bitrate)
			}
			d.updateSubChannel(subChID)
		}
	}
}

// processFIG0_2 decodes "Basic service and service component
// definition" for programme services, giving each audio component's
// sub-channel, codec (DAB/DAB+) and primary/secondary status.
func (d *Decoder) processFIG0_2(data []byte) {
	for offset := 0; offset+3 <= len(data); {
		sid := uint16(data[offset])<<8 | uint16(data[offset+1])
		offset += 2

		numComps := int(data[offset] & 0x0F)
		offset++

		for c := 0; c < numComps && offset+2 <= len(data); c++ {
			tmid := data[offset] >> 6
			if tmid == 0b00 { // MSC stream audio
				ascty := int(data[offset] & 0x3F)
				subChID := int(data[offset+1] >> 2)
				primary := data[offset+1]&0x02 != 0
				conditionalAccess := data[offset+1]&0x01 != 0

				if !conditionalAccess && (ascty == 0 || ascty == 63) {
					audio := ensemble.AudioService{SubChID: subChID, DABPlus: ascty == 63}
					svc := d.getOrCreateService(sid)
					current := svc.audioComps[subChID]
					wasPrimary := svc.priCompSubChID == subChID
					if current != audio || primary != wasPrimary {
						svc.audioComps[subChID] = audio
						if primary {
							svc.priCompSubChID = subChID
						}
						if d.Logger != nil {
							d.Logger.Debug(pkg+"audio service component", "sid", sid, "subchid", subChID, "dabplus", audio.DABPlus, "primary", primary)
						}
						d.updateService(svc)
					}
				}
			}
			offset += 2
		}
	}
}

// processFIG0_5 decodes "Service component language" for MSC
// components, ignoring FIC components and the long form (neither of
// which this receiver needs).
func (d *Decoder) processFIG0_5(data []byte) {
	for offset := 0; offset < len(data); {
		lsFlag := data[offset]&0x80 != 0
		if lsFlag {
			offset += 3
			continue
		}
		if offset+2 > len(data) {
			break
		}
		mscFICFlag := data[offset]&0x40 != 0
		if !mscFICFlag {
			subChID := int(data[offset] & 0x3F)
			language := int(data[offset+1])

			current := d.subchannels[subChID]
			if current.Language != language {
				current.Language = language
				d.subchannels[subChID] = current
				if d.Logger != nil {
					d.Logger.Debug(pkg+"sub-channel language updated", "subchid", subChID, "language", LanguageName(language))
				}
				d.updateSubChannel(subChID)
			}
		}
		offset += 2
	}
}

// processFIG0_8 decodes "Service component global definition" for
// programme services, mapping SCIdS to sub-channel ID for MSC
// components (FIC components and the long form are ignored).
func (d *Decoder) processFIG0_8(data []byte) {
	for offset := 0; offset+3 <= len(data); {
		sid := uint16(data[offset])<<8 | uint16(data[offset+1])
		offset += 2

		extFlag := data[offset]&0x80 != 0
		scids := int(data[offset] & 0x0F)
		offset++

		lsFlag := data[offset]&0x80 != 0
		if lsFlag {
			offset += 2
		} else {
			mscFICFlag := data[offset]&0x40 != 0
			if !mscFICFlag {
				subChID := int(data[offset] & 0x3F)
				svc := d.getOrCreateService(sid)
				_, existed := svc.compDefs[scids]
				current := svc.compDefs[scids]
				if !existed || current != subChID {
					svc.compDefs[scids] = subChID
					if d.Logger != nil {
						d.Logger.Debug(pkg+"MSC service component", "sid", sid, "scids", scids, "subchid", subChID)
					}
					d.updateService(svc)
				}
			}
			offset++
		}

		if extFlag {
			offset++
		}
	}
}

// processFIG0_9 decodes "Time and country identifier", giving the
// ensemble's extended country code, local time offset and which PTY
// table (RDS or RBDS) the international table ID selects.
func (d *Decoder) processFIG0_9(data []byte) {
	if len(data) < 3 {
		return
	}
	lto := int(data[0] & 0x1F)
	if data[0]&0x20 != 0 {
		lto = -lto
	}
	ecc := int(data[1])
	tableID := int(data[2])

	if d.ensemble.LocalTimeOffset != lto || d.ensemble.ExtendedCountryCode != ecc || d.ensemble.InternationalTableID != tableID {
		d.ensemble.LocalTimeOffset = lto
		d.ensemble.ExtendedCountryCode = ecc
		d.ensemble.InternationalTableID = tableID
		if d.Logger != nil {
			d.Logger.Debug(pkg+"country/LTO/table updated", "ecc", ecc, "lto", LTOString(lto), "table", tableID)
		}
		d.updateEnsemble()

		for _, svc := range d.services {
			if svc.ptyStatic != ensemble.PTYNone || svc.ptyDynamic != ensemble.PTYNone {
				d.updateService(svc)
			}
		}
	}
}

// processFIG0_10 decodes "Date and time", converting the Modified
// Julian Date and time-of-day fields into a UTC DateTime. The MJD to
// Gregorian conversion follows the same formula as the original
// decoder (itself the standard MJD algorithm).
func (d *Decoder) processFIG0_10(data []byte) {
	if len(data) < 4 {
		return
	}

	mjd := int(data[0]&0x7F)<<10 | int(data[1])<<2 | int(data[2])>>6

	y0 := int(math.Floor((float64(mjd) - 15078.2) / 365.25))
	m0 := int(math.Floor((float64(mjd) - 14956.1 - math.Floor(float64(y0)*365.25)) / 30.6001))
	day := mjd - 14956 - int(math.Floor(float64(y0)*365.25)) - int(math.Floor(float64(m0)*30.6001))
	k := 0
	if m0 == 14 || m0 == 15 {
		k = 1
	}
	year := y0 + k + 1900
	month := m0 - 1 - k*12

	utcFlag := data[2]&0x08 != 0
	hour := int(data[2]&0x07)<<2 | int(data[3])>>6
	minute := int(data[3] & 0x3F)

	second := 0
	ms := ensemble.MillisecondsNone
	if utcFlag {
		if len(data) < 6 {
			return
		}
		second = int(data[4] >> 2)
		ms = int(data[4]&0x03)<<8 | int(data[5])
	}

	loc := time.UTC
	newDT := ensemble.DateTime{
		Time:         time.Date(year, time.Month(month), day, hour, minute, second, 0, loc),
		Milliseconds: ms,
	}

	if !d.utcDT.Time.Equal(newDT.Time) || d.utcDT.Milliseconds != newDT.Milliseconds {
		if d.utcDT.None() && d.Logger != nil {
			d.Logger.Debug(pkg+"UTC date/time", "value", newDT.Time.Format(time.RFC3339))
		}
		d.utcDT = newDT
		d.observer.FICChangeUTCDateTime(d.utcDT)
	}
}

// processFIG0_13 decodes "User application information" for programme
// services, recording the X-PAD Slideshow user application's raw data
// (used later to derive the slideshow's X-PAD app type/DSCTy).
func (d *Decoder) processFIG0_13(data []byte) {
	const slideshowUAType = 0x002

	for offset := 0; offset+3 <= len(data); {
		sid := uint16(data[offset])<<8 | uint16(data[offset+1])
		offset += 2

		scids := int(data[offset] >> 4)
		numUAs := int(data[offset] & 0x0F)
		offset++

		for i := 0; i < numUAs && offset+2 <= len(data); i++ {
			uaType := int(data[offset])<<3 | int(data[offset+1]>>5)
			uaLen := int(data[offset+1] & 0x1F)
			offset += 2

			if offset+uaLen > len(data) {
				break
			}
			if uaType == slideshowUAType {
				svc := d.getOrCreateService(sid)
				if _, ok := svc.compSLSUAs[scids]; !ok {
					uaData := make([]byte, uaLen)
					copy(uaData, data[offset:offset+uaLen])
					svc.compSLSUAs[scids] = uaData
					if d.Logger != nil {
						d.Logger.Debug(pkg+"slideshow user application", "sid", sid, "scids", scids, "bytes", uaLen)
					}
					d.updateService(svc)
				}
			}
			offset += uaLen
		}
	}
}

// processFIG0_17 decodes "Programme Type", giving each service's
// static and/or dynamic programme type. The PTY table (RDS vs RBDS)
// is determined separately by FIG 0/9's international table ID.
func (d *Decoder) processFIG0_17(data []byte) {
	for offset := 0; offset+3 <= len(data); {
		sid := uint16(data[offset])<<8 | uint16(data[offset+1])
		dynamic := data[offset+2]&0x80 != 0
		languageFlag := data[offset+2]&0x20 != 0
		ccFlag := data[offset+2]&0x10 != 0
		offset += 3

		if languageFlag {
			offset++
		}
		if offset >= len(data) {
			break
		}
		pty := int(data[offset] & 0x1F)
		offset++
		if ccFlag {
			offset++
		}

		svc := d.getOrCreateService(sid)
		currentPTY := &svc.ptyStatic
		if dynamic {
			currentPTY = &svc.ptyDynamic
		}
		if *currentPTY != pty {
			showMsg := !(d.DisableDynamicMessages && dynamic && *currentPTY != ensemble.PTYNone)
			*currentPTY = pty
			if showMsg && d.Logger != nil {
				d.Logger.Debug(pkg+"programme type", "sid", sid, "dynamic", dynamic, "pty", PTYName(pty, 0x01))
			}
			d.updateService(svc)
		}
	}
}

// processFIG0_18 decodes "Announcement support": which announcement
// types a service supports and which clusters it belongs to.
func (d *Decoder) processFIG0_18(data []byte) {
	for offset := 0; offset+5 <= len(data); {
		sid := uint16(data[offset])<<8 | uint16(data[offset+1])
		asuFlags := uint16(data[offset+2])<<8 | uint16(data[offset+3])
		numClusters := int(data[offset+4] & 0x1F)
		offset += 5

		if offset+numClusters > len(data) {
			break
		}
		clusters := make(map[uint8]struct{}, numClusters)
		for i := 0; i < numClusters; i++ {
			clusters[data[offset+i]] = struct{}{}
		}
		offset += numClusters

		svc := d.getOrCreateService(sid)
		if svc.asuFlags != asuFlags || !clusterSetsEqual(svc.clusterIDs, clusters) {
			svc.asuFlags = asuFlags
			svc.clusterIDs = clusters
			if d.Logger != nil {
				d.Logger.Debug(pkg+"announcement support", "sid", sid, "asuflags", asuFlags, "clusters", len(clusters))
			}
			d.updateService(svc)
		}
	}
}

// processFIG0_19 decodes "Announcement switching": the live
// now-switching state of each announcement cluster, and which
// sub-channel to switch to for the duration of the announcement.
func (d *Decoder) processFIG0_19(data []byte) {
	for offset := 0; offset+4 <= len(data); {
		cid := data[offset]
		swFlags := uint16(data[offset+1])<<8 | uint16(data[offset+2])
		regionFlag := data[offset+3]&0x40 != 0
		subChID := int(data[offset+3] & 0x3F)
		if regionFlag {
			offset += 5
		} else {
			offset += 4
		}
		if offset > len(data) {
			break
		}

		ac := ensemble.AnnouncementCluster{SwitchFlags: swFlags, SubChID: subChID}
		current := d.ensemble.AnnouncementClusters[cid]
		if current != ac {
			d.ensemble.AnnouncementClusters[cid] = ac
			if !d.DisableDynamicMessages && d.Logger != nil {
				d.Logger.Debug(pkg+"announcement switching", "cid", cid, "swflags", swFlags, "subchid", subChID)
			}
			d.updateEnsemble()

			for _, svc := range d.services {
				if _, ok := svc.clusterIDs[cid]; ok {
					d.updateService(svc)
				}
			}
		}
	}
}

func clusterSetsEqual(a, b map[uint8]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func eepLabel(pl int, variant byte) string {
	return "EEP " + strconv.Itoa(pl+1) + "-" + string(variant)
}

func uepLabel(pl int) string {
	return "UEP " + strconv.Itoa(pl)
}
