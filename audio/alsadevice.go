/*
NAME
  alsadevice.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/utils/logging"
)

// wantPeriod mirrors device/alsa's own 50ms period choice for low-ish
// latency, negotiated against whatever period size the playback
// device actually supports.
const wantPeriod = 0.05

// ALSADevice plays interleaved float32 PCM through the first ALSA
// device capable of playback, adapting device/alsa's card/device
// negotiation sequence (built for capture) to the playback direction
// required by audio.Device; samples are converted to S16_LE, since
// few consumer ALSA devices negotiate a floating-point hardware
// format.
type ALSADevice struct {
	l    logging.Logger
	dev  *yalsa.Device
	conv []byte // scratch buffer reused across Write calls.
}

// NewALSADevice returns an ALSADevice logging to l.
func NewALSADevice(l logging.Logger) *ALSADevice { return &ALSADevice{l: l} }

// Configure implements Device: it opens the first playback-capable PCM
// device found and negotiates it to sampleRate/channels at 16-bit
// signed little-endian, mirroring device/alsa.ALSA.open's negotiation
// sequence (channels, then rate, then format, then period/buffer
// size, then Prepare) with Record swapped for Play.
func (d *ALSADevice) Configure(sampleRate, channels int) error {
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}

	cards, err := yalsa.OpenCards()
	if err != nil {
		return fmt.Errorf("alsa: opening cards: %w", err)
	}
	defer yalsa.CloseCards(cards)

	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Play {
				continue
			}
			d.dev = dev
			break
		}
		if d.dev != nil {
			break
		}
	}
	if d.dev == nil {
		return errors.New("alsa: no playback-capable device found")
	}

	if err := d.dev.Open(); err != nil {
		return fmt.Errorf("alsa: opening device: %w", err)
	}

	negChannels, err := d.dev.NegotiateChannels(channels)
	if err != nil {
		return fmt.Errorf("alsa: negotiating channels: %w", err)
	}
	negRate, err := d.dev.NegotiateRate(sampleRate)
	if err != nil {
		return fmt.Errorf("alsa: negotiating rate: %w", err)
	}
	if _, err := d.dev.NegotiateFormat(yalsa.S16_LE); err != nil {
		return fmt.Errorf("alsa: negotiating format: %w", err)
	}

	bytesPerSecond := negRate * negChannels * 2
	wantPeriodSize := int(float64(bytesPerSecond) * wantPeriod)
	periodSize, err := d.dev.NegotiatePeriodSize(wantPeriodSize)
	if err != nil {
		return fmt.Errorf("alsa: negotiating period size: %w", err)
	}
	if _, err := d.dev.NegotiateBufferSize(periodSize * 4); err != nil {
		return fmt.Errorf("alsa: negotiating buffer size: %w", err)
	}

	if err := d.dev.Prepare(); err != nil {
		return fmt.Errorf("alsa: preparing device: %w", err)
	}

	if d.l != nil {
		d.l.Info(pkg+"alsa device ready", "rate", negRate, "channels", negChannels)
	}
	return nil
}

// Write converts interleaved float32 pcm to S16_LE and writes it to
// the negotiated ALSA device.
func (d *ALSADevice) Write(pcm []byte) (int, error) {
	if d.dev == nil {
		return 0, errors.New("alsa: device not configured")
	}
	nSamples := len(pcm) / 4
	if cap(d.conv) < nSamples*2 {
		d.conv = make([]byte, nSamples*2)
	}
	buf := d.conv[:nSamples*2]
	for i := 0; i < nSamples; i++ {
		f := math.Float32frombits(binary.LittleEndian.Uint32(pcm[i*4:]))
		binary.LittleEndian.PutUint16(buf[i*2:], floatToS16(f))
	}
	if _, err := d.dev.Write(buf); err != nil {
		return 0, fmt.Errorf("alsa: write: %w", err)
	}
	return len(pcm), nil
}

// Close releases the ALSA device.
func (d *ALSADevice) Close() error {
	if d.dev == nil {
		return nil
	}
	err := d.dev.Close()
	d.dev = nil
	return err
}

func floatToS16(f float32) uint16 {
	v := f * 32767
	switch {
	case v > 32767:
		v = 32767
	case v < -32768:
		v = -32768
	}
	return uint16(int16(v))
}
