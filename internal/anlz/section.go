// Package anlz builds the tagged big-endian ANLZ section container used
// for per-track analysis blobs (ANLZ0000.DAT/.EXT/.2EX). Every section shares the same three-field preamble: a
// 4-byte ASCII tag, a big-endian header length, and a big-endian total
// length that includes the header.
package anlz

import (
	"encoding/binary"
	"fmt"
)

const basePreambleLen = 12 // tag(4) + len_header(4) + len_tag(4)

// ErrAnalysisSizeMismatch is returned when a fixed-size waveform section
// is given the wrong number of samples.
var ErrAnalysisSizeMismatch = fmt.Errorf("anlz: analysis payload has the wrong sample count")

// ErrPaletteIndexOutOfRange is returned when a cue's hot-cue color index
// falls outside the 63-entry palette.
var ErrPaletteIndexOutOfRange = fmt.Errorf("anlz: hot cue color index is out of range")

// writeSection assembles one section: tag, then any type-specific extra
// header fields, then the payload. len_header covers the preamble plus
// extraHeader; len_tag covers the whole section.
func writeSection(tag string, extraHeader, payload []byte) []byte {
	lenHeader := basePreambleLen + len(extraHeader)
	lenTag := lenHeader + len(payload)
	out := make([]byte, lenTag)
	copy(out[0:4], tag)
	binary.BigEndian.PutUint32(out[4:8], uint32(lenHeader))
	binary.BigEndian.PutUint32(out[8:12], uint32(lenTag))
	copy(out[12:], extraHeader)
	copy(out[12+len(extraHeader):], payload)
	return out
}
