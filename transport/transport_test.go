package transport

import (
	"bytes"
	"context"
	"testing"

	"github.com/dablin-go/dablin/crc"
)

type recordingObserver struct {
	fic        [][]byte
	subChannel [][]byte
	progress   []Progress
}

func (o *recordingObserver) ProcessFIC(data []byte) {
	o.fic = append(o.fic, append([]byte{}, data...))
}
func (o *recordingObserver) ProcessSubChannel(data []byte) {
	o.subChannel = append(o.subChannel, append([]byte{}, data...))
}
func (o *recordingObserver) UpdateProgress(p Progress) { o.progress = append(o.progress, p) }

// buildETIFrame constructs one valid, minimal ETI(NI) frame: FICF set,
// MID=0 (24 FIC bytes = 1 FIB), one sub-channel of subChanBytes/8
// 64-bit words, correct header and MST CRCs.
func buildETIFrame(fsync uint32, subChanID int, ficData, subChanData []byte) []byte {
	if len(ficData) != 24*4 {
		panic("test fixture requires 24*4 FIC bytes")
	}
	ficWords := 24
	stl := len(subChanData) / 8
	nst := 1
	fl := nst + 1 + ficWords + 2*stl

	frame := make([]byte, 0, 6144)
	frame = append(frame, 0xFF)                                          // ERR
	frame = append(frame, byte(fsync>>16), byte(fsync>>8), byte(fsync)) // FSYNC

	// FC: FCT(1) + NST|FICF(1) + FP|MID|FL-high(1) + FL-low(1)
	ficf := byte(0x80)
	nstByte := ficf | byte(nst)
	mid := byte(0) // MID=0 -> FIC 24 words
	midByte := (mid << 3) | byte((fl>>8)&0x07)
	flLow := byte(fl & 0xFF)
	frame = append(frame, 0x00, nstByte, midByte, flLow)

	// STC for sub-channel 0: SCID|start(6 bits)+2, TPL(1), STL(2, 10-bit)
	scidByte := byte(subChanID << 2)
	frame = append(frame, scidByte, 0x00, byte((stl>>8)&0x03), byte(stl&0xFF))

	// MNSC (2 bytes), folded into the header CRC span alongside FC/STC.
	frame = append(frame, 0x00, 0x00)

	headerCRCData := frame[4:]
	headerCRC := crc.CCITT.Calc(headerCRCData)
	frame = append(frame, byte(headerCRC>>8), byte(headerCRC))

	mstStart := len(frame)
	frame = append(frame, ficData...)
	frame = append(frame, subChanData...)
	mstCRC := crc.CCITT.Calc(frame[mstStart:])
	frame = append(frame, byte(mstCRC>>8), byte(mstCRC))

	if len(frame) < etiFrameSize {
		frame = append(frame, make([]byte, etiFrameSize-len(frame))...)
	}
	return frame
}

func TestETIFramerSplitsFICAndSubChannel(t *testing.T) {
	fic := bytes.Repeat([]byte{0xAB}, 24*4)
	subChan := bytes.Repeat([]byte{0xCD}, 8*3) // 24 bytes = 3 64-bit words -> stl=3

	frame := buildETIFrame(0x073AB6, 5, fic, subChan)

	obs := &recordingObserver{}
	fr := NewETIFramer(obs, nil)
	fr.SelectSubChannel(5)

	r := bytes.NewReader(frame)
	if err := fr.Run(context.Background(), r); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(obs.fic) != 1 || !bytes.Equal(obs.fic[0], fic) {
		t.Fatalf("FIC split mismatch: got %d chunks", len(obs.fic))
	}
	if len(obs.subChannel) != 1 || !bytes.Equal(obs.subChannel[0], subChan) {
		t.Fatalf("sub-channel split mismatch: got %v want %v", obs.subChannel, subChan)
	}
}

func TestETIFramerRejectsBadHeaderCRC(t *testing.T) {
	fic := bytes.Repeat([]byte{0xAB}, 24*4)
	subChan := bytes.Repeat([]byte{0xCD}, 8*3)
	frame := buildETIFrame(0x073AB6, 5, fic, subChan)
	frame[8] ^= 0xFF // corrupt the STC's SCID byte, covered by the header CRC

	obs := &recordingObserver{}
	fr := NewETIFramer(obs, nil)
	fr.SelectSubChannel(5)

	if err := fr.Run(context.Background(), bytes.NewReader(frame)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(obs.fic) != 0 || len(obs.subChannel) != 0 {
		t.Fatalf("expected frame with bad header CRC to be dropped")
	}
}

func TestETIFramerResyncsAfterGarbage(t *testing.T) {
	fic := bytes.Repeat([]byte{0xAB}, 24*4)
	subChan := bytes.Repeat([]byte{0xCD}, 8*3)
	frame := buildETIFrame(0x073AB6, 5, fic, subChan)

	stream := append(bytes.Repeat([]byte{0x11}, 37), frame...)

	obs := &recordingObserver{}
	fr := NewETIFramer(obs, nil)
	fr.SelectSubChannel(5)

	if err := fr.Run(context.Background(), bytes.NewReader(stream)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(obs.fic) != 1 || !bytes.Equal(obs.fic[0], fic) {
		t.Fatalf("expected exactly one synced frame after garbage prefix, got %d", len(obs.fic))
	}
}

func TestScanSyncFindsOffset(t *testing.T) {
	magics := []syncMagic{{offset: 1, bytes: []byte{0x07, 0x3A, 0xB6}, name: "FSYNC0"}}
	buf := append([]byte{0x00, 0x00}, byte(0xFF), 0x07, 0x3A, 0xB6)
	offset, matched, ok := scanSync(buf, magics)
	if !ok || offset != 2 || matched.name != "FSYNC0" {
		t.Fatalf("got offset=%d matched=%v ok=%v", offset, matched, ok)
	}
}

// buildEDIAFPacket constructs a minimal valid EDI AF packet carrying a
// single deti TAG item with no FIC/ATST and a single est1 TAG item for
// sub-channel 2.
func buildEDIAFPacket(subChanID int, subChanData []byte) []byte {
	var tags []byte

	detiValue := []byte{0x00, 0x00, 0xFF, 0x00, 0x00, 0x00} // atstf=0, ficf=0, rfudf=0; STAT=0xFF; MID=0
	tags = appendTag(tags, "deti", detiValue)

	estValue := append([]byte{byte(subChanID << 2), 0x00, 0x00}, subChanData...)
	tags = appendTag(tags, "est1", estValue)

	payload := append([]byte{}, tags...)

	header := make([]byte, 10)
	header[0], header[1] = 'A', 'F'
	length := len(payload)
	header[2] = byte(length >> 24)
	header[3] = byte(length >> 16)
	header[4] = byte(length >> 8)
	header[5] = byte(length)
	header[6], header[7] = 0x00, 0x00 // SEQ, ignored by this decoder
	header[8] = 0x80 | 0x10           // CF=1, MAJ=1, MIN=0
	header[9] = 'T'

	packet := append(header, payload...)
	sum := crc.CCITT.Calc(packet)
	packet = append(packet, byte(sum>>8), byte(sum))
	return packet
}

func appendTag(buf []byte, name string, value []byte) []byte {
	buf = append(buf, []byte(name)...)
	bitLen := len(value) * 8
	buf = append(buf, byte(bitLen>>24), byte(bitLen>>16), byte(bitLen>>8), byte(bitLen))
	buf = append(buf, value...)
	return buf
}

func TestEDIFramerDecodesBareAFPacket(t *testing.T) {
	subChan := bytes.Repeat([]byte{0xEE}, 5)
	packet := buildEDIAFPacket(2, subChan)

	obs := &recordingObserver{}
	fr := NewEDIFramer(obs, nil)
	fr.SelectSubChannel(2)

	if err := fr.Run(context.Background(), bytes.NewReader(packet)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(obs.subChannel) != 1 || !bytes.Equal(obs.subChannel[0], subChan) {
		t.Fatalf("sub-channel split mismatch: got %v want %v", obs.subChannel, subChan)
	}
}

func TestEDIFramerIgnoresWrongSubChannel(t *testing.T) {
	subChan := bytes.Repeat([]byte{0xEE}, 5)
	packet := buildEDIAFPacket(2, subChan)

	obs := &recordingObserver{}
	fr := NewEDIFramer(obs, nil)
	fr.SelectSubChannel(9)

	if err := fr.Run(context.Background(), bytes.NewReader(packet)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(obs.subChannel) != 0 {
		t.Fatalf("expected no sub-channel bytes for an unselected sub-channel")
	}
}

type recordingUntouched struct {
	calls int
}

func (r *recordingUntouched) UntouchedStream(data []byte, durationMS int) { r.calls++ }

func TestUntouchedConsumerReceivesSubChannelFrames(t *testing.T) {
	subChan := bytes.Repeat([]byte{0xEE}, 5)
	packet := buildEDIAFPacket(2, subChan)

	obs := &recordingObserver{}
	fr := NewEDIFramer(obs, nil)
	fr.SelectSubChannel(2)
	tap := &recordingUntouched{}
	fr.SetUntouchedConsumer(tap)

	if err := fr.Run(context.Background(), bytes.NewReader(packet)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tap.calls != 1 {
		t.Fatalf("got %d untouched-stream calls, want 1", tap.calls)
	}
}
