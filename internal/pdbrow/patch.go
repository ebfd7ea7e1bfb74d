// Package pdbrow encodes the ~10 DeviceSQL row kinds into their on-disk
// byte bodies. Each encoder embeds placeholder zeros for
// its string-offset fields; callers resolve the real offsets once the
// row's final heap placement is known via ApplyStringOffsets.
package pdbrow

import "encoding/binary"

// StringRef records where, within an encoded row body, a u16 ofs_string
// placeholder lives (FieldOffset) and where the string bytes it points
// to begin (StringStart), both relative to the start of the row body.
type StringRef struct {
	FieldOffset int
	StringStart int
}

// ApplyStringOffsets patches every placeholder in body so that it reads
// heapOffset + ref.StringStart, once body's final in-page heap offset is
// known: each placeholder becomes row_heap_offset + intra_row_string_offset.
func ApplyStringOffsets(body []byte, refs []StringRef, heapOffset uint32) {
	for _, ref := range refs {
		binary.LittleEndian.PutUint16(body[ref.FieldOffset:], uint16(heapOffset)+uint16(ref.StringStart))
	}
}

// appendString appends the already-encoded bytes of a DeviceSQL string to
// body and records the StringRef needed to patch fieldOffset later.
func appendString(body []byte, fieldOffset int, encoded []byte) ([]byte, StringRef) {
	ref := StringRef{FieldOffset: fieldOffset, StringStart: len(body)}
	body = append(body, encoded...)
	return body, ref
}

// setIndexShift patches a row's index_shift field, found at byte offset
// 2 in every row kind that carries one (track/artist/album); working
// exports set it equal to the row's in-page heap offset.
func setIndexShift(body []byte, heapOffset uint32) {
	binary.LittleEndian.PutUint16(body[2:], uint16(heapOffset))
}
