package ringbuffer

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	b := New(8)
	n := b.Write([]byte("abcd"))
	if n != 4 {
		t.Fatalf("Write = %d, want 4", n)
	}
	out := make([]byte, 4)
	if got := b.Read(out); got != 4 {
		t.Fatalf("Read = %d, want 4", got)
	}
	if string(out) != "abcd" {
		t.Errorf("Read data = %q, want %q", out, "abcd")
	}
}

func TestWriteTruncatesOnOverflow(t *testing.T) {
	b := New(4)
	n := b.Write([]byte("abcdef"))
	if n != 4 {
		t.Errorf("Write = %d, want 4 (silent truncation)", n)
	}
	if b.Len() != 4 {
		t.Errorf("Len = %d, want 4", b.Len())
	}
}

func TestRollover(t *testing.T) {
	b := New(4)
	b.Write([]byte("ab"))
	out := make([]byte, 1)
	b.Read(out) // consume 'a', start=1

	// Now write 3 bytes: 'c','d','e' -- end=2, room=3, should wrap.
	n := b.Write([]byte("cde"))
	if n != 3 {
		t.Fatalf("Write = %d, want 3", n)
	}
	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}

	got := make([]byte, 4)
	read := b.Read(got)
	if read != 4 {
		t.Fatalf("Read = %d, want 4", read)
	}
	if string(got) != "bcde" {
		t.Errorf("Read data = %q, want %q", got, "bcde")
	}
}

func TestReadMoreThanAvailable(t *testing.T) {
	b := New(8)
	b.Write([]byte("xy"))
	out := make([]byte, 5)
	n := b.Read(out)
	if n != 2 {
		t.Fatalf("Read = %d, want 2", n)
	}
	if string(out[:n]) != "xy" {
		t.Errorf("Read data = %q, want %q", out[:n], "xy")
	}
}

func TestClear(t *testing.T) {
	b := New(4)
	b.Write([]byte("ab"))
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", b.Len())
	}
	n := b.Write([]byte("cdef"))
	if n != 4 {
		t.Errorf("Write after Clear = %d, want 4", n)
	}
}
