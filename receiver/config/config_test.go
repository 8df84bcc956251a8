package config

import (
	"testing"

	"github.com/dablin-go/dablin/receiver"
	"github.com/dablin-go/dablin/source"
)

func TestParseChannelBandIIINoGain(t *testing.T) {
	freqHz, band, gain, hasGain, err := ParseChannel("12A")
	if err != nil {
		t.Fatalf("ParseChannel: %v", err)
	}
	if freqHz != 223936000 || band != source.BandIII || hasGain {
		t.Fatalf("got freqHz=%d band=%v hasGain=%v", freqHz, band, hasGain)
	}
	_ = gain
}

func TestParseChannelLBandWithGain(t *testing.T) {
	freqHz, band, gain, hasGain, err := ParseChannel("LA:40")
	if err != nil {
		t.Fatalf("ParseChannel: %v", err)
	}
	if freqHz != 1452960000 || band != source.LBand || !hasGain || gain != 40 {
		t.Fatalf("got freqHz=%d band=%v gain=%d hasGain=%v", freqHz, band, gain, hasGain)
	}
}

func TestParseChannelUnknown(t *testing.T) {
	if _, _, _, _, err := ParseChannel("99Z"); err == nil {
		t.Fatalf("expected an error for an unsupported channel")
	}
}

func TestValidateRejectsChannelWithoutLiveSource(t *testing.T) {
	c := &Config{Channel: "12A"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for a channel with no live source")
	}
}

func TestValidateRejectsLiveSourceWithoutChannel(t *testing.T) {
	c := &Config{LiveSource: LiveSourceDab2ETI, Format: receiver.FormatETI}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for a live source with no channel")
	}
}

func TestValidateRejectsWAVOutputWithoutPath(t *testing.T) {
	c := &Config{Output: OutputWAV}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for WAV output with no path")
	}
}
