/*
NAME
  dablin is the reference text-mode DAB/DAB+ receiver CLI.

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

// Command dablin reads an ETI(NI) or EDI transport stream from a file,
// stdin or a spawned tuner process, decodes its FIC and selected audio
// service, and plays or records the result, mirroring DABlinText: the
// non-GUI reference build of the original project.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/dablin-go/dablin/audio"
	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/receiver"
	"github.com/dablin-go/dablin/receiver/config"
	"github.com/dablin-go/dablin/source"
	"github.com/dablin-go/dablin/subchannel/mp2"
	"github.com/dablin-go/dablin/subchannel/superframe"
)

const (
	logPath      = "dablin.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	os.Exit(run())
}

// run implements the CLI; it returns the process exit code instead of
// calling os.Exit directly so defers (closing the source/sinks) always
// run, mirroring the original's destructor-driven cleanup on DoExit.
func run() int {
	var (
		formatFlag  = flag.String("f", "eti", "transport format: eti or edi")
		liveBinary  = flag.String("d", "", "live source binary (dab2eti or eti-cmdline)")
		liveKind    = flag.String("D", "dab2eti", "live source type: dab2eti or eti-cmdline")
		channel     = flag.String("c", "", "DAB channel, e.g. 12A or 12A:40")
		label       = flag.String("l", "", "select service by label")
		firstFound  = flag.Bool("1", false, "select the first service found")
		sid         = flag.Int("s", ensemble.SIDNone, "select service by SID")
		scids       = flag.Int("x", ensemble.SCIdSNone, "select service component by SCIdS (with -s)")
		subChIDDAB  = flag.Int("r", ensemble.SubChIDNone, "select a DAB sub-channel directly")
		subChIDPlus = flag.Int("R", ensemble.SubChIDNone, "select a DAB+ sub-channel directly")
		gain        = flag.Int("g", 0, "fixed RF gain for a live source")
		defGain     = flag.Bool("G", false, "use automatic gain for a live source, the same as giving no gain flag (there is no separate default-gain setting)")
		pcmOut      = flag.Bool("p", false, "write decoded PCM to stdout")
		untouched   = flag.Bool("u", false, "write the selected sub-channel's untouched stream to stdout")
		noCatchUp   = flag.Bool("I", false, "disable catch-up after a stall")
		noDynamic   = flag.Bool("F", false, "suppress dynamic FIC messages")
		help        = flag.Bool("h", false, "show usage")
	)
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		return 0
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := buildConfig(buildConfigArgs{
		formatFlag: *formatFlag, liveBinary: *liveBinary, liveKind: *liveKind,
		channel: *channel, label: *label, firstFound: *firstFound,
		sid: *sid, scids: *scids, subChIDDAB: *subChIDDAB, subChIDPlus: *subChIDPlus,
		gain: *gain, defGain: *defGain, pcmOut: *pcmOut, untouched: *untouched,
		noCatchUp: *noCatchUp, noDynamic: *noDynamic,
		filename: flag.Arg(0),
		set:      set,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dablin:", err)
		usage()
		return 1
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)
	cfg.Logger = log
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "dablin:", err)
		usage()
		return 1
	}

	return runReceiver(cfg, log)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dablin [flags] [filename]")
	flag.PrintDefaults()
}

// runReceiver wires a Config into a running receiver.Receiver until its
// source reaches EOF, is cancelled by SIGINT/SIGTERM, or hits an I/O
// error, mirroring DABlinText's constructor-then-Main lifecycle.
func runReceiver(cfg *config.Config, log logging.Logger) int {
	obs := newTextObserver(os.Stderr)

	sink, closeSink, err := openSink(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dablin:", err)
		return 1
	}
	defer closeSink()

	codecs := audio.CodecFactory{
		NewMP2:        func() mp2.Codec { return stubMP2Codec{} },
		NewSuperFrame: func() superframe.Codec { return stubSuperFrameCodec{} },
	}

	r := receiver.New(cfg.Format, sink, codecs, !cfg.DisableCatchUp, obs, log)
	r.SetDisableDynamicMessages(cfg.DisableDynamicMessages)
	r.SetSelection(cfg.Selection)
	if cfg.Output == config.OutputUntouched {
		r.SetUntouchedConsumer(obs)
	}

	reader, proc, err := openSource(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dablin:", err)
		return 1
	}
	defer reader.Close()
	if proc != nil {
		defer proc.Stop()
	}
	r.SetTotalBytes(reader.TotalBytes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		reader.RequestExit()
	}()

	if err := r.Run(ctx, reader); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "dablin:", err)
		return 1
	}
	return 0
}

// openSource opens cfg's input: a spawned live-tuner process, a named
// file, or stdin, in that order of precedence, mirroring DABlinText's
// own ensemble_source selection.
func openSource(cfg *config.Config) (*source.Reader, *source.Process, error) {
	onTick := func() {}

	if cfg.LiveSource != config.LiveSourceNone {
		freqHz, band, chanGain, hasGain, err := config.ParseChannel(cfg.Channel)
		if err != nil {
			return nil, nil, err
		}
		mode, g := source.GainAuto, 0
		if hasGain {
			mode, g = source.GainFixed, chanGain
		} else if cfg.GainMode == source.GainFixed {
			mode, g = source.GainFixed, cfg.Gain
		}

		var name string
		var args []string
		if cfg.LiveSource == config.LiveSourceEtiCmdline {
			name, args = source.EtiCmdline(cfg.Channel, band, mode, g)
		} else {
			name, args = source.Dab2ETI(freqHz, mode, g)
		}
		if cfg.LiveSourceBinary != "" {
			name = cfg.LiveSourceBinary
		}
		return source.OpenProcess(name, args, onTick)
	}

	if cfg.Filename == "" {
		r, err := source.OpenStdin(onTick)
		return r, nil, err
	}
	r, err := source.OpenFile(cfg.Filename, onTick)
	return r, nil, err
}

// openSink builds cfg's audio output and a cleanup func, mirroring
// DABlinText's AudioOutput selection (PCM stdout / WAV / platform
// device); OutputUntouched plays nothing, since the untouched tap
// bypasses decode entirely.
func openSink(cfg *config.Config) (audio.Sink, func(), error) {
	switch cfg.Output {
	case config.OutputPCM:
		s := audio.NewPCMSink(os.Stdout)
		return s, func() {}, nil
	case config.OutputWAV:
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("dablin: creating %s: %w", cfg.OutputPath, err)
		}
		s := audio.NewWAVSink(f)
		return s, func() { s.Close(); f.Close() }, nil
	case config.OutputUntouched:
		return audio.NewPCMSink(discardWriter{}), func() {}, nil
	default:
		dev := audio.NewALSADevice(cfg.Logger)
		s := audio.NewDeviceSink(dev)
		return s, func() { s.Close() }, nil
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
