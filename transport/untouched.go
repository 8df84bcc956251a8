/*
NAME
  untouched.go

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

// UntouchedConsumer receives the raw, validated bytes of every sub-
// channel frame the framer hands to the decode chain, unmodified and
// alongside the normal FIC/sub-channel split. Wired to the reference
// CLI's -u flag (recording the selected sub-channel's untouched stream
// to a file), this mirrors the original's UntouchedStreamConsumer.
type UntouchedConsumer interface {
	UntouchedStream(data []byte, durationMS int)
}

// SetUntouchedConsumer installs (or, with nil, removes) the single tap
// receiving every selected sub-channel frame's raw bytes.
func (fr *Framer) SetUntouchedConsumer(c UntouchedConsumer) {
	fr.engine.untouch = c
}

// reportUntouched forwards data to the installed untouched consumer, if
// any, alongside its playout duration at the standard 24ms/frame rate.
func (e *engine) reportUntouched(data []byte) {
	if e.untouch == nil {
		return
	}
	e.untouch.UntouchedStream(data, 24)
}
