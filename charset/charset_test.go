package charset

import "testing"

func TestToUTF8EBULatin(t *testing.T) {
	got, err := ToUTF8([]byte{'A', 'B', 0x7B, 0x01}, EBULatin, false)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	want := "AB«Ę"
	if got != want {
		t.Errorf("ToUTF8 EBU = %q, want %q", got, want)
	}
}

func TestToUTF8StripsControlBytes(t *testing.T) {
	data := []byte{'H', 'i', 0x00, 0x0A, 0x0B, 0x1F, '!'}
	got, err := ToUTF8(data, EBULatin, false)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	if got != "Hi!" {
		t.Errorf("ToUTF8 = %q, want %q", got, "Hi!")
	}
}

func TestToUTF8ISO88591RequiresMOT(t *testing.T) {
	if _, err := ToUTF8([]byte{0xE9}, ISO88591, false); err == nil {
		t.Errorf("expected error for ISO-8859-1 outside MOT context")
	}
	got, err := ToUTF8([]byte{0xE9}, ISO88591, true)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	if got != "é" {
		t.Errorf("ToUTF8 ISO-8859-1 = %q, want %q", got, "é")
	}
}

func TestToUTF8UCS2BERequiresDAB(t *testing.T) {
	data := []byte{0x00, 0x41, 0x00, 0x42}
	if _, err := ToUTF8(data, UCS2BE, true); err == nil {
		t.Errorf("expected error for UCS-2BE inside MOT context")
	}
	got, err := ToUTF8(data, UCS2BE, false)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	if got != "AB" {
		t.Errorf("ToUTF8 UCS-2BE = %q, want %q", got, "AB")
	}
}

func TestToUTF8OddUCS2BELength(t *testing.T) {
	if _, err := ToUTF8([]byte{0x00}, UCS2BE, false); err == nil {
		t.Errorf("expected error for odd-length UCS-2BE data")
	}
}

func TestToUTF8Passthrough(t *testing.T) {
	got, err := ToUTF8([]byte("hello"), UTF8, true)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	if got != "hello" {
		t.Errorf("ToUTF8 UTF-8 = %q, want %q", got, "hello")
	}
}

func TestToUTF8UnsupportedCharset(t *testing.T) {
	if _, err := ToUTF8([]byte("x"), Code(0b0010), false); err == nil {
		t.Errorf("expected error for unsupported charset code")
	}
}

func TestCodeName(t *testing.T) {
	if EBULatin.Name(false) != "EBU Latin based" {
		t.Errorf("unexpected name for EBULatin: %q", EBULatin.Name(false))
	}
	if UTF8.Name(true) != "UTF-8" {
		t.Errorf("unexpected name for UTF8: %q", UTF8.Name(true))
	}
}
