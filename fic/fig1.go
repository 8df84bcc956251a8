/*
NAME
  fig1.go

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

import "github.com/dablin-go/dablin/ensemble"

// fig1Header is the one-byte FIG 1 header: charset, OE flag and the
// 3-bit extension number (ETSI EN 300 401 clause 5.2.2.2).
type fig1Header struct {
	charset       int
	otherEnsemble bool
	extension     int
}

func parseFIG1Header(b byte) fig1Header {
	return fig1Header{
		charset:       int(b >> 4),
		otherEnsemble: b&0x08 != 0,
		extension:     int(b & 0x07),
	}
}

func (d *Decoder) processFIG1(data []byte) {
	if len(data) < 1 {
		if d.Logger != nil {
			d.Logger.Warning(pkg + "received empty FIG 1")
		}
		return
	}
	header := parseFIG1Header(data[0])
	data = data[1:]

	if header.otherEnsemble {
		return
	}

	var idLen int
	switch header.extension {
	case 0, 1: // ensemble, programme service
		idLen = 2
	case 4: // service component (programme services only)
		if len(data) < 1 || data[0]&0x80 != 0 {
			return
		}
		idLen = 3
	default:
		return
	}

	wantLen := idLen + 16 + 2
	if len(data) != wantLen {
		if d.Logger != nil {
			d.Logger.Warning(pkg+"unexpected FIG 1 length", "extension", header.extension, "got", len(data), "want", wantLen)
		}
		return
	}

	label := ensemble.Label{Charset: header.charset}
	copy(label.Chars[:], data[idLen:idLen+16])
	label.ShortLabelMask = uint16(data[idLen+16])<<8 | uint16(data[idLen+17])

	d.mu.Lock()
	defer d.mu.Unlock()

	switch header.extension {
	case 0:
		eid := uint16(data[0])<<8 | uint16(data[1])
		d.processFIG1_0(eid, label)
	case 1:
		sid := uint16(data[0])<<8 | uint16(data[1])
		d.processFIG1_1(sid, label)
	case 4:
		scids := int(data[0] & 0x0F)
		sid := uint16(data[1])<<8 | uint16(data[2])
		d.processFIG1_4(sid, scids, label)
	}
}

func (d *Decoder) processFIG1_0(eid uint16, label ensemble.Label) {
	if d.ensemble.EID != int(eid) || d.ensemble.Label != label {
		d.ensemble.EID = int(eid)
		d.ensemble.Label = label
		if d.Logger != nil {
			d.Logger.Debug(pkg+"ensemble label", "eid", eid, "label", ConvertLabelToUTF8(label))
		}
		d.updateEnsemble()
	}
}

func (d *Decoder) processFIG1_1(sid uint16, label ensemble.Label) {
	svc := d.getOrCreateService(sid)
	if svc.label != label {
		svc.label = label
		if d.Logger != nil {
			d.Logger.Debug(pkg+"programme service label", "sid", sid, "label", ConvertLabelToUTF8(label))
		}
		d.updateService(svc)
	}
}

func (d *Decoder) processFIG1_4(sid uint16, scids int, label ensemble.Label) {
	svc := d.getOrCreateService(sid)
	current := svc.compLabels[scids]
	if current != label {
		svc.compLabels[scids] = label
		if d.Logger != nil {
			d.Logger.Debug(pkg+"service component label", "sid", sid, "scids", scids, "label", ConvertLabelToUTF8(label))
		}
		d.updateService(svc)
	}
}

// updateSubChannel re-evaluates every service whose audio component
// sits on subChID, since a FIG 0/1 or FIG 0/5 change to the
// sub-channel can change what a listener sees for those services.
func (d *Decoder) updateSubChannel(subChID int) {
	for _, svc := range d.services {
		if _, ok := svc.audioComps[subChID]; ok {
			d.updateService(svc)
		}
	}
}

// updateService recomputes the listed service(s) derived from svc and
// forwards each to the observer, mirroring FICDecoder::UpdateService:
// secondary components are reported first, then the primary.
func (d *Decoder) updateService(svc *service) {
	if !svc.hasPriComp() || svc.label.None() {
		return
	}

	multiComps := false
	for scids, subChID := range svc.compDefs {
		if subChID == svc.priCompSubChID {
			continue
		}
		if _, ok := svc.audioComps[subChID]; !ok {
			continue
		}
		d.updateListedService(svc, scids, true)
		multiComps = true
	}

	d.updateListedService(svc, ensemble.SCIdSNone, multiComps)
}

func (d *Decoder) updateListedService(svc *service, scids int, multiComps bool) {
	ls := ensemble.ListedService{
		SID:            int(svc.sid),
		SCIdS:          scids,
		Label:          svc.label,
		PTYStatic:      svc.ptyStatic,
		PTYDynamic:     svc.ptyDynamic,
		ASuFlags:       svc.asuFlags,
		ClusterIDs:     svc.clusterIDs,
		PriCompSubChID: svc.priCompSubChID,
		MultiComps:     multiComps,
		SLSAppType:     ensemble.SLSAppTypeNone,
	}

	var audioSubChID int
	if scids == ensemble.SCIdSNone {
		audio, ok := svc.audioComps[svc.priCompSubChID]
		if !ok {
			return
		}
		ls.AudioService = audio
		audioSubChID = svc.priCompSubChID
	} else {
		subChID, ok := svc.compDefs[scids]
		if !ok {
			return
		}
		audio, ok := svc.audioComps[subChID]
		if !ok {
			return
		}
		ls.AudioService = audio
		audioSubChID = subChID
		if label, ok := svc.compLabels[scids]; ok {
			ls.Label = label
		}
	}

	if sc, ok := d.subchannels[audioSubChID]; ok {
		ls.SubChannel = sc
	}

	// Derive the SCIdS carrying this component's slideshow (if any),
	// looking it up in compDefs for the primary component since FIG
	// 0/13 keys user-application data by SCIdS, not sub-channel ID.
	slsSCIdS := scids
	if slsSCIdS == ensemble.SCIdSNone {
		for s, subChID := range svc.compDefs {
			if subChID == audioSubChID {
				slsSCIdS = s
				break
			}
		}
	}
	if slsSCIdS != ensemble.SCIdSNone {
		if uaData, ok := svc.compSLSUAs[slsSCIdS]; ok {
			ls.SLSAppType = getSLSAppType(uaData)
		}
	}

	d.observer.FICChangeService(ls)
}

// getSLSAppType derives the X-PAD application type carrying a
// service's slideshow from FIG 0/13's user-application data, applying
// the same defaults the original assumes when no UA data was received
// yet: CA off, app type 12, no data-group flag, DSCTy 60 (MOT).
func getSLSAppType(uaData []byte) int {
	caFlag := false
	xpadAppType := 12
	dgFlag := false
	dscty := 60 // MOT

	if len(uaData) >= 2 {
		caFlag = uaData[0]&0x80 != 0
		xpadAppType = int(uaData[0] & 0x1F)
		dgFlag = uaData[1]&0x80 != 0
		dscty = int(uaData[1] & 0x3F)
	}

	if !caFlag && !dgFlag && dscty == 60 {
		return xpadAppType
	}
	return ensemble.SLSAppTypeNone
}

func (d *Decoder) updateEnsemble() {
	if d.ensemble.Label.None() {
		return
	}
	d.observer.FICChangeEnsemble(d.ensemble)
}
