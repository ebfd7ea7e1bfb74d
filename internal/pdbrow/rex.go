package pdbrow

import "encoding/binary"

// EncodeRex produces the compact "REX" row layout used by the columns
// table (type 16) and uk17 (type 17): 4 u16 fields, 8 bytes total, no
// strings. The Kaitai grammar describes a wider 4×u32 row for these
// tables, but working exports use this 8-byte form, so that is what is
// emitted here.
func EncodeRex(a, b, c, d uint16) []byte {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint16(body[0:], a)
	binary.LittleEndian.PutUint16(body[2:], b)
	binary.LittleEndian.PutUint16(body[4:], c)
	binary.LittleEndian.PutUint16(body[6:], d)
	return body
}
