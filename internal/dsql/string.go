// Package dsql implements the DeviceSQL string wire codec used by every
// row body in export.pdb: short-ASCII, long-ASCII, and UTF-16-LE, chosen
// by content and length per the three-variant rule.
package dsql

import (
	"fmt"
	"unicode/utf16"
)

const maxU16 = 1<<16 - 1

// ErrStringTooLong is returned when a long-ASCII or UTF-16 encoded length
// would exceed the 16-bit length field.
var ErrStringTooLong = fmt.Errorf("dsql: encoded string length exceeds u16")

func isShortASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// Encode returns the wire bytes for s in whichever of the three
// DeviceSQL variants applies. Empty strings encode as short-ASCII with
// encoded_len = 1 (header byte 0x03).
func Encode(s string) ([]byte, error) {
	ascii := isShortASCII(s)

	if ascii {
		encodedLen := len(s) + 1
		// encoded_len must fit in 7 bits once shifted left by 1 and
		// or'd with the low presence bit, i.e. encoded_len <= 0x7F.
		if encodedLen <= 0x7F {
			out := make([]byte, 1+len(s))
			out[0] = byte((encodedLen << 1) | 1)
			copy(out[1:], s)
			return out, nil
		}
		if len(s) > maxU16 {
			return nil, ErrStringTooLong
		}
		out := make([]byte, 4+len(s))
		out[0] = 0x40
		out[1] = byte(len(s))
		out[2] = byte(len(s) >> 8)
		out[3] = 0x00
		copy(out[4:], s)
		return out, nil
	}

	units := utf16.Encode([]rune(s))
	byteLen := 2*len(units) + 4
	if byteLen > maxU16 {
		return nil, ErrStringTooLong
	}
	out := make([]byte, 4+2*len(units))
	out[0] = 0x90
	out[1] = byte(byteLen)
	out[2] = byte(byteLen >> 8)
	out[3] = 0x00
	for i, u := range units {
		out[4+2*i] = byte(u)
		out[4+2*i+1] = byte(u >> 8)
	}
	return out, nil
}
