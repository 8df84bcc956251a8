package mot

import (
	"testing"

	"github.com/dablin-go/dablin/crc"
)

// recordingObserver collects every completed MOT file.
type recordingObserver struct {
	files []File
}

func (o *recordingObserver) MOTFileCompleted(f File) {
	o.files = append(o.files, f)
}

// bitWriter is the test-only mirror of mot's bitReader, used to build
// MOT header-core byte sequences for the Manager tests below.
type bitWriter struct {
	bits []bool
}

func (w *bitWriter) addBits(value, count int) {
	for i := count - 1; i >= 0; i-- {
		w.bits = append(w.bits, value&(1<<uint(i)) != 0)
	}
}

func (w *bitWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, b := range w.bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func buildHeaderCore(bodySize, headerSize, contentType, contentSubType int) []byte {
	w := &bitWriter{}
	w.addBits(bodySize, 28)
	w.addBits(headerSize, 13)
	w.addBits(contentType, 6)
	w.addBits(contentSubType, 9)
	return w.bytes()
}

// buildDataGroup assembles a full MOT X-PAD data group: header byte(s),
// session header, segmentation header, payload and CRC-16/CCITT
// trailer, exactly as HandleMOTDataGroup expects to receive it.
func buildDataGroup(dgType int, lastSeg bool, segNumber, transportID int, payload []byte) []byte {
	var dg []byte

	dgByte := byte(dgType & 0x0F)
	dgByte |= 0x40 // CRC flag
	dgByte |= 0x20 // segment flag
	dgByte |= 0x10 // user access flag
	dg = append(dg, dgByte, 0x00)

	var lastBit byte
	if lastSeg {
		lastBit = 0x80
	}
	dg = append(dg, lastBit|byte(segNumber>>8)&0x7F, byte(segNumber))
	dg = append(dg, 0x12) // transport_id_flag=1, len_indicator=2
	dg = append(dg, byte(transportID>>8), byte(transportID))

	segSize := len(payload)
	dg = append(dg, byte(segSize>>8)&0x1F, byte(segSize))
	dg = append(dg, payload...)

	sum := crc.CCITT.Calc(dg)
	dg = append(dg, byte(sum>>8), byte(sum))
	return dg
}

func TestSlideshowCompletion(t *testing.T) {
	obs := &recordingObserver{}
	m := New(obs, nil)

	header := buildHeaderCore(23, 7, ContentTypeImage, ContentSubTypeJFIF)
	body := make([]byte, 23)
	for i := range body {
		body[i] = byte(i)
	}

	m.HandleMOTDataGroup(buildDataGroup(3, false, 0, 0x2A, header[:4]))
	m.HandleMOTDataGroup(buildDataGroup(3, true, 1, 0x2A, header[4:]))
	m.HandleMOTDataGroup(buildDataGroup(4, false, 0, 0x2A, body[0:8]))
	m.HandleMOTDataGroup(buildDataGroup(4, false, 1, 0x2A, body[8:16]))
	m.HandleMOTDataGroup(buildDataGroup(4, true, 2, 0x2A, body[16:23]))

	if len(obs.files) != 1 {
		t.Fatalf("got %d completed files, want 1", len(obs.files))
	}
	f := obs.files[0]
	if f.ContentSubType != ContentSubTypeJFIF {
		t.Errorf("ContentSubType = %d, want JFIF", f.ContentSubType)
	}
	if !f.IsSlideshowImage() {
		t.Errorf("IsSlideshowImage() = false, want true")
	}
	if string(f.Data) != string(body) {
		t.Errorf("Data mismatch")
	}
}

func TestTransportIDChangeResetsInFlightObject(t *testing.T) {
	obs := &recordingObserver{}
	m := New(obs, nil)

	header := buildHeaderCore(23, 7, ContentTypeImage, ContentSubTypeJFIF)

	m.HandleMOTDataGroup(buildDataGroup(3, false, 0, 0x2A, header[:4]))
	m.HandleMOTDataGroup(buildDataGroup(3, true, 1, 0x2A, header[4:]))
	m.HandleMOTDataGroup(buildDataGroup(4, false, 0, 0x2A, make([]byte, 8)))

	// transport ID changes mid-sequence: the 0x2A object must never complete.
	m.HandleMOTDataGroup(buildDataGroup(3, false, 0, 0x2B, header[:4]))

	if len(obs.files) != 0 {
		t.Fatalf("got %d completed files after transport-ID change, want 0", len(obs.files))
	}
}

func TestHandleMOTDataGroupRejectsSegmentSizeMismatch(t *testing.T) {
	obs := &recordingObserver{}
	m := New(obs, nil)

	dg := buildDataGroup(3, true, 0, 1, []byte{0x01, 0x02})
	dg = append(dg, 0x00) // extra trailing byte throws off the segmentation-header size check

	m.HandleMOTDataGroup(dg)
	if len(obs.files) != 0 {
		t.Fatalf("expected no completion on segmentation size mismatch")
	}
}

func TestParseCheckDataGroupHeaderRejectsWrongType(t *testing.T) {
	dg := []byte{0x70, 0x00} // CRC+segment+user-access set, dg_type=0 (not 3/4)
	_, _, ok := parseCheckDataGroupHeader(dg, 0)
	if ok {
		t.Errorf("expected rejection of dg_type=0")
	}
}

func TestEntityIsFinished(t *testing.T) {
	e := newEntity()
	if e.isFinished() {
		t.Fatalf("empty entity must not be finished")
	}
	e.addSeg(1, true, []byte{0xAA})
	if e.isFinished() {
		t.Fatalf("entity missing segment 0 must not be finished")
	}
	e.addSeg(0, false, []byte{0xBB})
	if !e.isFinished() {
		t.Fatalf("entity with segments 0,1(last) should be finished")
	}
	if string(e.data()) != string([]byte{0xBB, 0xAA}) {
		t.Errorf("data() did not concatenate in segment order")
	}
}
