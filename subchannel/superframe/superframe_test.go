package superframe

import (
	"bytes"
	"testing"
)

type recordingObserver struct {
	formats   []string
	started   bool
	sr, ch    int
	audio     [][]byte
	xpad      [][]byte
	exactLens []bool
}

func (o *recordingObserver) FormatChange(format string) { o.formats = append(o.formats, format) }
func (o *recordingObserver) StartAudio(sampleRate, channels int, float32 bool) {
	o.started = true
	o.sr, o.ch = sampleRate, channels
}
func (o *recordingObserver) PutAudio(data []byte) { o.audio = append(o.audio, append([]byte{}, data...)) }
func (o *recordingObserver) ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte) {
	o.xpad = append(o.xpad, append([]byte{}, xpad...))
	o.exactLens = append(o.exactLens, exactLen)
}

type fakeCodec struct {
	aus       []AccessUnit
	format    Format
	decodeErr error
	calls     int
}

func (c *fakeCodec) DecodeSuperFrame(data []byte) ([]AccessUnit, bool, error) {
	c.calls++
	return c.aus, c.calls == 1, c.decodeErr
}
func (c *fakeCodec) Format() (Format, error) { return c.format, nil }

func TestSinkBuffersToSuperFrameBoundary(t *testing.T) {
	codec := &fakeCodec{
		aus:    []AccessUnit{{PCM: []byte{0x01}}, {PCM: []byte{0x02}}},
		format: Format{SampleRate: 48000, Channels: 2, SBR: true, PS: true},
	}
	obs := &recordingObserver{}
	sink := New(codec, obs, 24) // 24 bytes/frame * 5 frames = 120 byte superframe

	sink.Feed(bytes.Repeat([]byte{0xAA}, 100))
	if codec.calls != 0 {
		t.Fatalf("expected no decode before a full superframe, got %d calls", codec.calls)
	}

	sink.Feed(bytes.Repeat([]byte{0xBB}, 20))
	if codec.calls != 1 {
		t.Fatalf("expected exactly one decode once the superframe filled, got %d", codec.calls)
	}
	if len(obs.audio) != 2 {
		t.Fatalf("expected both access units' PCM forwarded, got %d", len(obs.audio))
	}
	if len(obs.formats) != 1 || obs.formats[0] != "DAB+ HE-AACv2 (SBR+PS), 48000 Hz 2ch" {
		t.Fatalf("unexpected format report: %v", obs.formats)
	}
}

func TestSinkReportsPADWithExactLength(t *testing.T) {
	codec := &fakeCodec{
		aus: []AccessUnit{
			{PCM: []byte{0x01}, XPAD: []byte{0xCC, 0xDD}},
			{PCM: []byte{0x02}}, // no PAD in this access unit
		},
	}
	obs := &recordingObserver{}
	sink := New(codec, obs, 10) // 10 * 5 = 50 byte superframe

	sink.Feed(bytes.Repeat([]byte{0xEE}, 50))

	if len(obs.xpad) != 1 {
		t.Fatalf("expected exactly one ProcessPAD call, got %d", len(obs.xpad))
	}
	if !obs.exactLens[0] {
		t.Fatalf("DAB+ PAD must report exactLen=true")
	}
	if !bytes.Equal(obs.xpad[0], []byte{0xCC, 0xDD}) {
		t.Fatalf("xpad mismatch: got %v", obs.xpad[0])
	}
}
