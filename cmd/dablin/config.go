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

package main

import (
	"fmt"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/receiver"
	"github.com/dablin-go/dablin/receiver/config"
	"github.com/dablin-go/dablin/source"
)

// buildConfigArgs bundles every parsed CLI flag value, plus the set of
// flag names flag.Visit actually saw, since buildConfig needs to tell
// an explicitly-passed "-g 0" or "-s 0" apart from an untouched
// zero-value default when checking the "at most one" groups below.
type buildConfigArgs struct {
	formatFlag  string
	liveBinary  string
	liveKind    string
	channel     string
	label       string
	firstFound  bool
	sid         int
	scids       int
	subChIDDAB  int
	subChIDPlus int
	gain        int
	defGain     bool
	pcmOut      bool
	untouched   bool
	noCatchUp   bool
	noDynamic   bool
	filename    string
	set         map[string]bool
}

// buildConfig translates a parsed CLI flag set into a *config.Config,
// enforcing the "at most one initial-service selector", "at most one
// gain selector" and "at most one output option" flag groups that
// plain flag.Int/flag.Bool zero-value defaults can't distinguish from
// an explicit pass on their own.
func buildConfig(a buildConfigArgs) (*config.Config, error) {
	cfg := &config.Config{
		Filename:               a.filename,
		Channel:                a.channel,
		LiveSourceBinary:       a.liveBinary,
		DisableCatchUp:         a.noCatchUp,
		DisableDynamicMessages: a.noDynamic,
	}

	switch a.formatFlag {
	case "eti":
		cfg.Format = receiver.FormatETI
	case "edi":
		cfg.Format = receiver.FormatEDI
	default:
		return nil, fmt.Errorf("unknown format %q (want eti or edi)", a.formatFlag)
	}

	if a.set["d"] {
		switch a.liveKind {
		case "dab2eti":
			cfg.LiveSource = config.LiveSourceDab2ETI
		case "eti-cmdline":
			cfg.LiveSource = config.LiveSourceEtiCmdline
		default:
			return nil, fmt.Errorf("unknown live source type %q (want dab2eti or eti-cmdline)", a.liveKind)
		}
	}

	sel, err := buildSelection(a)
	if err != nil {
		return nil, err
	}
	cfg.Selection = sel

	gainMode, gain, err := buildGain(a)
	if err != nil {
		return nil, err
	}
	cfg.GainMode, cfg.Gain = gainMode, gain

	output, err := buildOutput(a)
	if err != nil {
		return nil, err
	}
	cfg.Output = output

	return cfg, nil
}

// buildSelection resolves the -l/-1/-s(+-x)/-r/-R group, rejecting any
// combination naming more than one initial-service selector.
func buildSelection(a buildConfigArgs) (receiver.Selection, error) {
	chosen := 0
	for _, set := range []bool{a.set["l"], a.set["1"], a.set["s"], a.set["r"], a.set["R"]} {
		if set {
			chosen++
		}
	}
	if chosen > 1 {
		return receiver.Selection{}, fmt.Errorf("at most one of -l, -1, -s, -r, -R may be given")
	}
	if a.set["x"] && !a.set["s"] {
		return receiver.Selection{}, fmt.Errorf("-x requires -s")
	}

	switch {
	case a.set["l"]:
		return receiver.Selection{Mode: receiver.SelectByLabel, Label: a.label}, nil
	case a.set["1"]:
		return receiver.Selection{Mode: receiver.SelectFirstFound}, nil
	case a.set["s"]:
		scids := ensemble.SCIdSNone
		if a.set["x"] {
			scids = a.scids
		}
		return receiver.Selection{Mode: receiver.SelectBySID, SID: a.sid, SCIdS: scids}, nil
	case a.set["r"]:
		return receiver.Selection{Mode: receiver.SelectBySubChID, SubChID: a.subChIDDAB, DABPlus: false}, nil
	case a.set["R"]:
		return receiver.Selection{Mode: receiver.SelectBySubChID, SubChID: a.subChIDPlus, DABPlus: true}, nil
	default:
		return receiver.Selection{SID: ensemble.SIDNone, SCIdS: ensemble.SCIdSNone, SubChID: ensemble.SubChIDNone}, nil
	}
}

// buildGain resolves the -g/-G group, rejecting both being given.
func buildGain(a buildConfigArgs) (source.GainMode, int, error) {
	if a.set["g"] && a.set["G"] {
		return 0, 0, fmt.Errorf("at most one of -g, -G may be given")
	}
	if a.set["g"] {
		return source.GainFixed, a.gain, nil
	}
	return source.GainAuto, 0, nil
}

// buildOutput resolves the -p/-u group, rejecting both being given.
func buildOutput(a buildConfigArgs) (config.Output, error) {
	if a.pcmOut && a.untouched {
		return 0, fmt.Errorf("at most one of -p, -u may be given")
	}
	switch {
	case a.pcmOut:
		return config.OutputPCM, nil
	case a.untouched:
		return config.OutputUntouched, nil
	default:
		return config.OutputDevice, nil
	}
}
