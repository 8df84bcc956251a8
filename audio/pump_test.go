package audio

import (
	"bytes"
	"testing"

	"github.com/dablin-go/dablin/ensemble"
	"github.com/dablin-go/dablin/mot"
	"github.com/dablin-go/dablin/pad"
	"github.com/dablin-go/dablin/subchannel/mp2"
)

type fakeSink struct {
	opened      bool
	sr, ch      int
	written     [][]byte
	closed      bool
	threshold   float64
}

func (s *fakeSink) Open(sampleRate, channels int) error {
	s.opened = true
	s.sr, s.ch = sampleRate, channels
	return nil
}
func (s *fakeSink) Write(pcm []byte) (int, error) {
	s.written = append(s.written, append([]byte{}, pcm...))
	return len(pcm), nil
}
func (s *fakeSink) Close() error          { s.closed = true; return nil }
func (s *fakeSink) StartThreshold() float64 {
	if s.threshold == 0 {
		return 0.5
	}
	return s.threshold
}

type fakePADObserver struct{}

func (fakePADObserver) PADChangeDynamicLabel(pad.Label)        {}
func (fakePADObserver) PADChangeSlide(mot.File)                {}
func (fakePADObserver) PADLengthError(announced, available int) {}

type fakeMP2Codec struct {
	feeds int
}

func (c *fakeMP2Codec) Feed(data []byte) error { c.feeds++; return nil }
func (c *fakeMP2Codec) NextFrame() (needMore, newFormat bool, err error) {
	return true, false, nil
}
func (c *fakeMP2Codec) Format() (mp2.FrameInfo, error) { return mp2.FrameInfo{}, nil }
func (c *fakeMP2Codec) FrameBody() []byte              { return nil }
func (c *fakeMP2Codec) Decode() ([]byte, error)        { return nil, nil }

func TestSetAudioServiceIdempotent(t *testing.T) {
	sink := &fakeSink{}
	codecCalls := 0
	factory := CodecFactory{
		NewMP2: func() mp2Codec {
			codecCalls++
			return &fakeMP2Codec{}
		},
		NewSuperFrame: func() superFrameCodec { return nil },
	}
	p := New(sink, factory, fakePADObserver{}, false, nil)

	service := ensemble.AudioService{SubChID: 5, DABPlus: false}
	p.SetAudioService(service, 24)
	p.SetAudioService(service, 24)

	if codecCalls != 1 {
		t.Fatalf("expected exactly one codec construction across two identical selections, got %d", codecCalls)
	}
}

func TestSetAudioServiceTeardownOnChange(t *testing.T) {
	sink := &fakeSink{}
	factory := CodecFactory{
		NewMP2:        func() mp2Codec { return &fakeMP2Codec{} },
		NewSuperFrame: func() superFrameCodec { return nil },
	}
	p := New(sink, factory, fakePADObserver{}, false, nil)

	p.SetAudioService(ensemble.AudioService{SubChID: 5}, 24)
	p.mu.Lock()
	p.ring = nil // no ring: the service change below must close the sink regardless
	p.mu.Unlock()

	p.SetAudioService(ensemble.AudioService{SubChID: 9}, 24)
	if !sink.closed {
		t.Fatalf("expected the output sink to be closed on service change")
	}
}

func TestSetAudioServiceNoneProducesSilence(t *testing.T) {
	sink := &fakeSink{}
	factory := CodecFactory{
		NewMP2:        func() mp2Codec { return &fakeMP2Codec{} },
		NewSuperFrame: func() superFrameCodec { return nil },
	}
	p := New(sink, factory, fakePADObserver{}, false, nil)

	p.SetAudioService(ensemble.AudioService{SubChID: 5}, 24)
	p.SetAudioService(ensemble.AudioService{SubChID: ensemble.SubChIDNone}, 0)

	p.mu.Lock()
	scSink := p.scSink
	p.mu.Unlock()
	if scSink != nil {
		t.Fatalf("expected no sub-channel sink installed for a none selection")
	}
}

func TestPutAudioMutesUntilThreshold(t *testing.T) {
	sink := &fakeSink{threshold: 0.5}
	p := New(sink, CodecFactory{}, fakePADObserver{}, false, nil)

	p.startAudio(1000, 1, true) // ring = 1000*1*4*0.5s = 2000 bytes

	p.putAudio(bytes.Repeat([]byte{0x01}, 500))
	if len(sink.written) != 0 {
		t.Fatalf("expected no output before threshold crossed, got %d writes", len(sink.written))
	}

	p.putAudio(bytes.Repeat([]byte{0x02}, 600)) // cumulative 1100 >= 1000 (50% of 2000)
	if len(sink.written) == 0 {
		t.Fatalf("expected output once the ring buffer crossed its start threshold")
	}
}

func TestFeedDispatchesToSubChannelSink(t *testing.T) {
	sink := &fakeSink{}
	codec := &fakeMP2Codec{}
	factory := CodecFactory{
		NewMP2:        func() mp2Codec { return codec },
		NewSuperFrame: func() superFrameCodec { return nil },
	}
	p := New(sink, factory, fakePADObserver{}, false, nil)
	p.SetAudioService(ensemble.AudioService{SubChID: 1}, 24)

	p.Feed([]byte{0x01, 0x02, 0x03})

	if codec.feeds != 1 {
		t.Fatalf("expected the selected sub-channel codec to receive the fed bytes, got %d feeds", codec.feeds)
	}
}

