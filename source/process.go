/*
NAME
  process.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package source

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/creack/pty"
)

// GainMode selects how a spawned tuner process picks its RF gain.
type GainMode int

const (
	// GainAuto lets the tuner process choose its own gain.
	GainAuto GainMode = iota
	// GainFixed passes an explicit gain value.
	GainFixed
)

// Band selects the tuner band for the eti-cmdline spawn contract.
type Band int

const (
	BandIII Band = iota
	LBand
)

func (b Band) String() string {
	if b == LBand {
		return "L_BAND"
	}
	return "BAND_III"
}

// Dab2ETI returns the argv for spawning `dab2eti <freq-Hz> [<gain>]`,
// which prints ETI(NI) frames on stdout, mirroring the DAB2ETIETISource
// spawn contract. gain is ignored when mode is GainAuto.
func Dab2ETI(freqHz int, mode GainMode, gain int) (name string, args []string) {
	args = []string{strconv.Itoa(freqHz)}
	if mode == GainFixed {
		args = append(args, strconv.Itoa(gain))
	}
	return "dab2eti", args
}

// EtiCmdline returns the argv for spawning
// `eti-cmdline -C <block> -S -B <BAND_III|L_BAND> [-Q | -G <gain>]`,
// which prints ETI(NI) frames on stdout, mirroring the
// EtiCmdlineETISource spawn contract.
func EtiCmdline(block string, band Band, mode GainMode, gain int) (name string, args []string) {
	args = []string{"-C", block, "-S", "-B", band.String()}
	switch mode {
	case GainAuto:
		args = append(args, "-Q")
	case GainFixed:
		args = append(args, "-G", strconv.Itoa(gain))
	}
	return "eti-cmdline", args
}

// OpenProcess spawns name with args, wiring its stdout through a
// pty so the descriptor can be put in non-blocking mode the same way
// a real terminal-backed fd would be, grounded on the pack's own
// pty-backed subprocess-pipe pattern for line-oriented child
// processes (this module has no subprocess reader of its own to
// generalize). The child's stderr is inherited so tuner diagnostics
// still reach the console. Stop must be called to kill the child.
func OpenProcess(name string, args []string, onTick func()) (*Reader, *Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr

	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("%sstarting %s: %w", pkg, name, err)
	}

	r, err := wrapFile(ptyFile, onTick)
	if err != nil {
		cmd.Process.Kill()
		return nil, nil, err
	}

	return r, &Process{cmd: cmd}, nil
}

// Process is the spawned child a Reader from OpenProcess reads from.
type Process struct {
	cmd *exec.Cmd
}

// Stop kills the child process and waits for it to exit.
func (p *Process) Stop() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil {
		return err
	}
	return p.cmd.Wait()
}
