package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchGrowthReportsSizeOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.eti")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sizes := make(chan int64, 8)
	gw, err := WatchGrowth(path, func(n int64) { sizes <- n })
	if err != nil {
		t.Fatalf("WatchGrowth: %v", err)
	}
	defer gw.Close()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.Write([]byte("defg")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	select {
	case n := <-sizes:
		if n != 7 {
			t.Fatalf("got size %d, want 7", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a growth notification")
	}
}
