package anlz

import (
	"encoding/binary"
	"unicode/utf16"
)

// PPTH encodes the track's file path as UTF-16-BE.
func PPTH(path string) []byte {
	units := utf16.Encode([]rune(path))
	payload := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(payload[2*i:], u)
	}
	extra := make([]byte, 4)
	binary.BigEndian.PutUint32(extra, uint32(len(payload)))
	return writeSection("PPTH", extra, payload)
}
