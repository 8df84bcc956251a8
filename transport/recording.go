/*
NAME
  recording.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package transport

import (
	"strings"
	"time"
)

// RecordingFilename builds the on-disk filename for a recording of an
// UntouchedConsumer's stream started at start, labelled with the
// selected service's label and the codec-chosen extension ("mp2",
// "aac", ...), mirroring DABlinGTK::on_tglbtn_record's
// "<YYYY-MM-DD - HH-MM-SS> - <label>.<ext>" convention. Any '/' in
// label is replaced with '_' since it would otherwise be read as a
// path separator.
func RecordingFilename(start time.Time, label, ext string) string {
	cleaned := strings.ReplaceAll(label, "/", "_")
	return start.Format("2006-01-02 - 15-04-05") + " - " + cleaned + "." + ext
}
