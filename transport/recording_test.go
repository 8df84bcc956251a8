package transport

import (
	"testing"
	"time"
)

func TestRecordingFilenameReplacesSlashesInLabel(t *testing.T) {
	start := time.Date(2023, time.January, 1, 23, 59, 59, 0, time.UTC)
	got := RecordingFilename(start, "News/Talk", "mp2")
	want := "2023-01-01 - 23-59-59 - News_Talk.mp2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
