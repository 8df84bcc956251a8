/*
NAME
  config.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Package config contains the configuration settings for the dablin
// reference receiver, in the style of revid's own config package: a
// flat struct of typed fields, enums as const/iota blocks, and a
// Validate method that rejects conflicting or incomplete combinations.
// Validate sets no defaults, and it does not check for more than one
// initial-service selector, gain selector or output option: a Config
// holds at most one of each by construction.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/receiver"
	"github.com/dablin-go/dablin/source"
)

// LiveSource selects which spawn contract LiveSourceBinary is started
// with, mirroring DABLiveETISource's TYPE_DAB2ETI/TYPE_ETI_CMDLINE.
type LiveSource uint8

const (
	// LiveSourceNone reads Filename (or stdin) directly; no process is
	// spawned.
	LiveSourceNone LiveSource = iota
	LiveSourceDab2ETI
	LiveSourceEtiCmdline
)

// Output selects how decoded audio leaves the receiver, mirroring
// dablin's -p/-u flags and its SDL/device default.
type Output uint8

const (
	// OutputDevice plays through a platform audio device (dablin's SDL
	// default when neither -p nor -u is given).
	OutputDevice Output = iota
	// OutputPCM writes interleaved PCM to stdout.
	OutputPCM
	// OutputWAV writes a streaming WAV file to OutputPath.
	OutputWAV
	// OutputUntouched writes the selected sub-channel's untouched byte
	// stream to stdout instead of decoding it.
	OutputUntouched
)

// Config holds every setting the reference receiver needs, gathered
// from CLI flags (or any other source) before Validate is called.
type Config struct {
	// Format selects the input stream's wire format.
	Format receiver.Format

	// Filename is the input file to read; empty means stdin. Must be
	// empty when LiveSource is not LiveSourceNone (Validate rejects it).
	Filename string

	// LiveSource selects which tuner process to spawn; LiveSourceNone
	// reads Filename/stdin directly.
	LiveSource LiveSource

	// LiveSourceBinary is the executable name (or path) to spawn when
	// LiveSource is not LiveSourceNone, e.g. "dab2eti" or "eti-cmdline".
	LiveSourceBinary string

	// Channel is the DAB channel to tune a live source to, either
	// "NAME" or "NAME:<gain>" (e.g. "12A", "12A:40"), looked up in
	// ChannelTable. Required when LiveSource is not LiveSourceNone.
	Channel string

	// Selection picks which listed service (or bare sub-channel) to
	// play; see receiver.Selection.
	Selection receiver.Selection

	// GainMode and Gain configure the live source's RF gain; Gain is
	// only consulted when GainMode is source.GainFixed. A Channel's
	// own ":<gain>" suffix, if present, overrides Gain after Validate.
	GainMode source.GainMode
	Gain     int

	// Output selects how decoded audio (or the untouched stream) is
	// delivered.
	Output Output
	// OutputPath is the WAV file path; required when Output is
	// OutputWAV.
	OutputPath string

	// DisableCatchUp, if true, makes the audio pump resync its pacing
	// schedule after a stall instead of replaying the backlog at full
	// speed (dablin's -I).
	DisableCatchUp bool
	// DisableDynamicMessages suppresses dynamic PTY/announcement FIC
	// messages (dablin's -F).
	DisableDynamicMessages bool

	// Logger receives the receiver's diagnostic output. Must be set.
	Logger logging.Logger
}

// ChannelTable maps a DAB channel name to its centre frequency in kHz,
// covering Band III blocks 5A-13F and L-Band blocks LA-LP.
var ChannelTable = map[string]int{
	"5A": 174928, "5B": 176640, "5C": 178352, "5D": 180064,
	"6A": 181936, "6B": 183648, "6C": 185360, "6D": 187072,
	"7A": 188928, "7B": 190640, "7C": 192352, "7D": 194064,
	"8A": 195936, "8B": 197648, "8C": 199360, "8D": 201072,
	"9A": 202928, "9B": 204640, "9C": 206352, "9D": 208064,
	"10A": 209936, "10N": 210096, "10B": 211648, "10C": 213360, "10D": 215072,
	"11A": 216928, "11N": 217088, "11B": 218640, "11C": 220352, "11D": 222064,
	"12A": 223936, "12N": 224096, "12B": 225648, "12C": 227360, "12D": 229072,
	"13A": 230784, "13B": 232496, "13C": 234208, "13D": 235776, "13E": 237488, "13F": 239200,

	"LA": 1452960, "LB": 1454672, "LC": 1456384, "LD": 1458096,
	"LE": 1459808, "LF": 1461520, "LG": 1463232, "LH": 1464944,
	"LI": 1466656, "LJ": 1468368, "LK": 1470080, "LL": 1471792,
	"LM": 1473504, "LN": 1475216, "LO": 1476928, "LP": 1478640,
}

// ParseChannel splits a "NAME" or "NAME:<gain>" channel string, looks
// NAME up in ChannelTable, and reports its frequency in Hz, its Band,
// and an optional gain override.
func ParseChannel(s string) (freqHz int, band source.Band, gain int, hasGain bool, err error) {
	name := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		name = s[:i]
		gain, err = strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, 0, false, fmt.Errorf("config: invalid gain in channel %q: %w", s, err)
		}
		hasGain = true
	}
	kHz, ok := ChannelTable[name]
	if !ok {
		return 0, 0, 0, false, fmt.Errorf("config: unsupported channel %q", s)
	}
	band = source.BandIII
	if name[0] == 'L' {
		band = source.LBand
	}
	return kHz * 1000, band, gain, hasGain, nil
}

// Validate checks for conflicting or missing settings, mirroring parts
// of dablin's CLI validation block: a live source requires ETI format,
// no filename and a valid channel; a channel requires a live source; a
// service component ID requires its service ID; WAV output requires a
// path; and Logger must be set. It changes no fields.
func (c *Config) Validate() error {
	if c.LiveSource != LiveSourceNone {
		if c.Format != receiver.FormatETI {
			return fmt.Errorf("config: a live source can only be used with ETI format")
		}
		if c.Filename != "" {
			return fmt.Errorf("config: a filename and a live source cannot both be used")
		}
		if c.Channel == "" {
			return fmt.Errorf("config: a live source requires a channel")
		}
		if _, _, _, _, err := ParseChannel(c.Channel); err != nil {
			return err
		}
	} else if c.Channel != "" {
		return fmt.Errorf("config: a channel requires a live source")
	}

	if c.Selection.Mode == receiver.SelectBySID && c.Selection.SID == ensemble.SIDNone && c.Selection.SCIdS != ensemble.SCIdSNone {
		return fmt.Errorf("config: a service component ID requires a service ID")
	}

	if c.Output == OutputWAV && c.OutputPath == "" {
		return fmt.Errorf("config: WAV output requires an output path")
	}

	if c.Logger == nil {
		return fmt.Errorf("config: Logger must be set")
	}

	return nil
}
