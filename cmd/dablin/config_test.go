/*
NAME
  config_test.go

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
	"testing"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/receiver"
	"github.com/dablin-go/dablin/receiver/config"
	"github.com/dablin-go/dablin/source"
)

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(buildConfigArgs{formatFlag: "eti", set: map[string]bool{}})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Format != receiver.FormatETI {
		t.Errorf("Format = %v, want FormatETI", cfg.Format)
	}
	if cfg.Selection.Mode != receiver.SelectNone {
		t.Errorf("Selection.Mode = %v, want SelectNone", cfg.Selection.Mode)
	}
	if cfg.GainMode != source.GainAuto {
		t.Errorf("GainMode = %v, want GainAuto", cfg.GainMode)
	}
	if cfg.Output != config.OutputDevice {
		t.Errorf("Output = %v, want OutputDevice", cfg.Output)
	}
}

func TestBuildConfigUnknownFormat(t *testing.T) {
	_, err := buildConfig(buildConfigArgs{formatFlag: "xyz", set: map[string]bool{}})
	if err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestBuildSelectionRejectsMultipleSelectors(t *testing.T) {
	_, err := buildSelection(buildConfigArgs{
		label: "Radio 1",
		sid:   4171,
		set:   map[string]bool{"l": true, "s": true},
	})
	if err == nil {
		t.Fatalf("expected an error when both -l and -s are given")
	}
}

func TestBuildSelectionBySIDWithSCIdS(t *testing.T) {
	sel, err := buildSelection(buildConfigArgs{
		sid:   4171,
		scids: 1,
		set:   map[string]bool{"s": true, "x": true},
	})
	if err != nil {
		t.Fatalf("buildSelection: %v", err)
	}
	if sel.Mode != receiver.SelectBySID || sel.SID != 4171 || sel.SCIdS != 1 {
		t.Fatalf("got %+v, want SelectBySID/4171/1", sel)
	}
}

func TestBuildSelectionXWithoutSRejected(t *testing.T) {
	_, err := buildSelection(buildConfigArgs{scids: 1, set: map[string]bool{"x": true}})
	if err == nil {
		t.Fatalf("expected an error when -x is given without -s")
	}
}

func TestBuildSelectionBySubChIDPlus(t *testing.T) {
	sel, err := buildSelection(buildConfigArgs{subChIDPlus: 7, set: map[string]bool{"R": true}})
	if err != nil {
		t.Fatalf("buildSelection: %v", err)
	}
	if sel.Mode != receiver.SelectBySubChID || sel.SubChID != 7 || !sel.DABPlus {
		t.Fatalf("got %+v, want SelectBySubChID/7/DABPlus", sel)
	}
}

func TestBuildGainRejectsBothFlags(t *testing.T) {
	_, _, err := buildGain(buildConfigArgs{gain: 40, set: map[string]bool{"g": true, "G": true}})
	if err == nil {
		t.Fatalf("expected an error when both -g and -G are given")
	}
}

func TestBuildGainFixed(t *testing.T) {
	mode, gain, err := buildGain(buildConfigArgs{gain: 40, set: map[string]bool{"g": true}})
	if err != nil {
		t.Fatalf("buildGain: %v", err)
	}
	if mode != source.GainFixed || gain != 40 {
		t.Fatalf("got %v/%d, want GainFixed/40", mode, gain)
	}
}

func TestBuildOutputRejectsBothFlags(t *testing.T) {
	_, err := buildOutput(buildConfigArgs{pcmOut: true, untouched: true})
	if err == nil {
		t.Fatalf("expected an error when both -p and -u are given")
	}
}

func TestBuildOutputUntouched(t *testing.T) {
	out, err := buildOutput(buildConfigArgs{untouched: true})
	if err != nil {
		t.Fatalf("buildOutput: %v", err)
	}
	if out != config.OutputUntouched {
		t.Fatalf("got %v, want OutputUntouched", out)
	}
}

func TestBuildConfigLiveSourceValidation(t *testing.T) {
	cfg, err := buildConfig(buildConfigArgs{
		formatFlag: "eti",
		liveKind:   "eti-cmdline",
		channel:    "12A",
		set:        map[string]bool{"d": true},
	})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.LiveSource != config.LiveSourceEtiCmdline {
		t.Fatalf("LiveSource = %v, want LiveSourceEtiCmdline", cfg.LiveSource)
	}
}

func TestBuildConfigUnknownLiveKind(t *testing.T) {
	_, err := buildConfig(buildConfigArgs{
		formatFlag: "eti",
		liveKind:   "bogus",
		set:        map[string]bool{"d": true},
	})
	if err == nil {
		t.Fatalf("expected an error for an unknown live source type")
	}
}

func defaultSelection() receiver.Selection {
	return receiver.Selection{SID: ensemble.SIDNone, SCIdS: ensemble.SCIdSNone, SubChID: ensemble.SubChIDNone}
}

func TestBuildSelectionDefault(t *testing.T) {
	sel, err := buildSelection(buildConfigArgs{set: map[string]bool{}})
	if err != nil {
		t.Fatalf("buildSelection: %v", err)
	}
	if sel != defaultSelection() {
		t.Fatalf("got %+v, want %+v", sel, defaultSelection())
	}
}
