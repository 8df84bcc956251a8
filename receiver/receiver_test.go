package receiver

import (
	"testing"

	"github.com/dablin-go/dablin/audio"
	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/mot"
	"github.com/dablin-go/dablin/pad"
	"github.com/dablin-go/dablin/subchannel/mp2"
	"github.com/dablin-go/dablin/transport"
)

type fakeObserver struct {
	formatChanges []string
	fibDiscarded  int
	padResets     int
	ensembles     []ensemble.Ensemble
	services      []ensemble.ListedService
	dynamicLabels []pad.Label
	processFICLen int
	processedPADs int
}

func (o *fakeObserver) FormatChange(format string) { o.formatChanges = append(o.formatChanges, format) }
func (o *fakeObserver) ProcessFIC(data []byte)      { o.processFICLen = len(data) }
func (o *fakeObserver) ProcessPAD(xpad []byte, exactLen bool, fpad [2]byte) {
	o.processedPADs++
}
func (o *fakeObserver) ResetPAD()                               { o.padResets++ }
func (o *fakeObserver) EnsembleChanged(e ensemble.Ensemble)     { o.ensembles = append(o.ensembles, e) }
func (o *fakeObserver) ServiceChanged(s ensemble.ListedService) { o.services = append(o.services, s) }
func (o *fakeObserver) UTCDateTime(ensemble.DateTime)           {}
func (o *fakeObserver) FIBDiscarded()                           { o.fibDiscarded++ }
func (o *fakeObserver) DynamicLabel(l pad.Label)                { o.dynamicLabels = append(o.dynamicLabels, l) }
func (o *fakeObserver) Slide(mot.File)                          {}
func (o *fakeObserver) UntouchedStream(data []byte, durationMS int) {}
func (o *fakeObserver) Progress(transport.Progress)             {}

type fakeSink struct{ opened bool }

func (s *fakeSink) Open(sampleRate, channels int) error { s.opened = true; return nil }
func (s *fakeSink) Write(pcm []byte) (int, error)       { return len(pcm), nil }
func (s *fakeSink) Close() error                        { return nil }
func (s *fakeSink) StartThreshold() float64             { return 0.5 }

type fakeMP2Codec struct{ feeds int }

func (c *fakeMP2Codec) Feed(data []byte) error { c.feeds++; return nil }
func (c *fakeMP2Codec) NextFrame() (needMore, newFormat bool, err error) {
	return true, false, nil
}
func (c *fakeMP2Codec) Format() (mp2.FrameInfo, error) { return mp2.FrameInfo{}, nil }
func (c *fakeMP2Codec) FrameBody() []byte              { return nil }
func (c *fakeMP2Codec) Decode() ([]byte, error)        { return nil, nil }

func TestFICChangeServiceFirstFoundAdopts(t *testing.T) {
	obs := &fakeObserver{}
	codec := &fakeMP2Codec{}
	factory := audio.CodecFactory{NewMP2: func() mp2.Codec { return codec }}
	r := New(FormatETI, &fakeSink{}, factory, true, obs, nil)
	r.SetSelection(Selection{Mode: SelectFirstFound, SID: ensemble.SIDNone, SCIdS: ensemble.SCIdSNone})

	svc := ensemble.ListedService{
		SID:          10,
		SCIdS:        ensemble.SCIdSNone,
		AudioService: ensemble.AudioService{SubChID: 2, DABPlus: false},
		SubChannel:   ensemble.SubChannel{Size: 10},
	}
	r.FICChangeService(svc)

	if len(obs.services) != 1 {
		t.Fatalf("expected one ServiceChanged call, got %d", len(obs.services))
	}

	r.ProcessSubChannel([]byte{0x01, 0x02})
	if codec.feeds != 1 {
		t.Fatalf("expected the adopted service's codec to receive fed bytes, got %d feeds", codec.feeds)
	}

	// A second, different-SID service report must not disturb the
	// already-adopted selection.
	other := svc
	other.SID = 11
	r.FICChangeService(other)
	r.ProcessSubChannel([]byte{0x03})
	if codec.feeds != 2 {
		t.Fatalf("expected the originally adopted sub-channel to still be selected, got %d feeds", codec.feeds)
	}
}

func TestFICChangeServiceBySIDIgnoresNonMatching(t *testing.T) {
	obs := &fakeObserver{}
	codec := &fakeMP2Codec{}
	factory := audio.CodecFactory{NewMP2: func() mp2.Codec { return codec }}
	r := New(FormatETI, &fakeSink{}, factory, true, obs, nil)
	r.SetSelection(Selection{Mode: SelectBySID, SID: 42, SCIdS: ensemble.SCIdSNone})

	r.FICChangeService(ensemble.ListedService{SID: 99, SCIdS: ensemble.SCIdSNone, AudioService: ensemble.AudioService{SubChID: 1}})
	r.ProcessSubChannel([]byte{0xAA})
	if codec.feeds != 0 {
		t.Fatalf("expected no dispatch for a non-matching SID, got %d feeds", codec.feeds)
	}

	r.FICChangeService(ensemble.ListedService{
		SID: 42, SCIdS: ensemble.SCIdSNone,
		AudioService: ensemble.AudioService{SubChID: 1},
		SubChannel:   ensemble.SubChannel{Size: 5},
	})
	r.ProcessSubChannel([]byte{0xAA})
	if codec.feeds != 1 {
		t.Fatalf("expected dispatch once the matching SID arrived, got %d feeds", codec.feeds)
	}
}

func TestSetSelectionBySubChIDTakesEffectImmediately(t *testing.T) {
	obs := &fakeObserver{}
	codec := &fakeMP2Codec{}
	factory := audio.CodecFactory{NewMP2: func() mp2.Codec { return codec }}
	r := New(FormatETI, &fakeSink{}, factory, true, obs, nil)

	r.SetSelection(Selection{Mode: SelectBySubChID, SubChID: 7, DABPlus: false})
	r.ProcessSubChannel([]byte{0x01})
	if codec.feeds != 1 {
		t.Fatalf("expected the directly-selected sub-channel's codec to receive fed bytes, got %d feeds", codec.feeds)
	}
}

func TestProcessFICForwardsRawBytesAndDiscardsBadFIBs(t *testing.T) {
	obs := &fakeObserver{}
	r := New(FormatETI, &fakeSink{}, audio.CodecFactory{}, true, obs, nil)

	data := make([]byte, 96) // three all-zero FIBs, none of which pass CRC.
	r.ProcessFIC(data)

	if obs.processFICLen != len(data) {
		t.Fatalf("expected the raw FIC tap to receive all %d bytes, got %d", len(data), obs.processFICLen)
	}
	if obs.fibDiscarded == 0 {
		t.Fatalf("expected at least one discarded FIB for all-zero input")
	}
}
