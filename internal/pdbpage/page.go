// Package pdbpage assembles individual 4096-byte export.pdb pages: the
// forward-growing row heap starting at offset 0x28 and the
// backward-growing, reverse-indexed row-group trailer.
package pdbpage

import (
	"encoding/binary"
	"fmt"
)

const (
	Size        = 4096
	HeapStart   = 0x28
	rowGroupLen = 36
	rowsPerGroup = 16
)

// Page flag values.
const (
	FlagData      = 0x24
	FlagGenres    = 0x34 // also history
	FlagIndex     = 0x64
	FlagPlaceholder = 0x00
)

// ErrRowTooLarge is returned when a single row body cannot possibly fit
// on an otherwise-empty page.
var ErrRowTooLarge = fmt.Errorf("pdbpage: row exceeds maximum page capacity")

// maxRowBytes is the largest a single row body may be: a whole page
// minus the heap start and a single row group trailer.
const maxRowBytes = Size - HeapStart - rowGroupLen

// Page accumulates row bodies for one table page before being finalized
// into its final 4096-byte form.
type Page struct {
	index     uint32
	pageType  uint32
	flags     byte
	rows      [][]byte // row bodies already placed in heap order
	heapUsed  int
}

// New starts a fresh page. pageType is the table's type code (0-19);
// flags is one of the Flag* constants above.
func New(index uint32, pageType uint32, flags byte) *Page {
	return &Page{index: index, pageType: pageType, flags: flags}
}

// Index reports the page's own sequential index.
func (p *Page) Index() uint32 { return p.index }

// NumRows reports how many rows have been placed on the page so far.
func (p *Page) NumRows() int { return len(p.rows) }

// projectedGroupBytes returns the row-group trailer size if n rows were
// present on the page: ceil(n/16) * 36 bytes.
func projectedGroupBytes(n int) int {
	if n == 0 {
		return 0
	}
	groups := (n + rowsPerGroup - 1) / rowsPerGroup
	return groups * rowGroupLen
}

// TryAppendRow attempts to place row on the page. On success it returns
// the row's heap offset (relative to the start of the page, i.e. already
// includes HeapStart) and true. On failure (the page has no room) it
// returns (0, false) and the page is left unmodified.
func (p *Page) TryAppendRow(row []byte) (uint32, bool, error) {
	if len(row) > maxRowBytes {
		return 0, false, ErrRowTooLarge
	}
	currentGroupBytes := projectedGroupBytes(len(p.rows))
	nextGroupBytes := projectedGroupBytes(len(p.rows) + 1)
	projectedExtra := nextGroupBytes - currentGroupBytes

	budget := Size - HeapStart - p.heapUsed - currentGroupBytes - projectedExtra
	if budget < len(row) {
		return 0, false, nil
	}

	offset := uint32(HeapStart + p.heapUsed)
	p.rows = append(p.rows, row)
	p.heapUsed += len(row)
	return offset, true, nil
}

// Finalize renders the page's final 4096-byte form. nextPageID is the
// page id of the next page in this table's chain, or 0 if this is the
// table's last page.
func (p *Page) Finalize(nextPageID uint32) [Size]byte {
	var buf [Size]byte

	if p.flags == FlagPlaceholder && len(p.rows) == 0 {
		// Empty placeholder pages are still written with a valid
		// header (own index, next page id, zero rows, used/free
		// sizes), but the body (heap + row groups) stays all zero.
		writeHeader(buf[:], p, nextPageID, 0, Size-HeapStart)
		return buf
	}

	// used_size + free_size + HeapStart == Size always; the row-group
	// trailer is carved out of what this field calls "free" rather than tracked separately, matching the
	// on-disk convention observed in working exports.
	usedSize := p.heapUsed
	freeSize := Size - HeapStart - usedSize
	writeHeader(buf[:], p, nextPageID, usedSize, freeSize)

	// Heap: row bodies in placement order, starting at HeapStart.
	off := HeapStart
	for _, row := range p.rows {
		copy(buf[off:], row)
		off += len(row)
	}

	// Row-group trailer: groups are written back to front, starting at
	// the very end of the page. Within a group, row_offset[15-i]
	// describes the row for presence bit i.
	numGroups := (len(p.rows) + rowsPerGroup - 1) / rowsPerGroup
	if numGroups == 0 {
		return buf
	}
	groupEnd := Size
	rowOffsets := make([]uint32, len(p.rows))
	o := HeapStart
	for i, row := range p.rows {
		rowOffsets[i] = uint32(o)
		o += len(row)
	}
	for g := numGroups - 1; g >= 0; g-- {
		groupStart := groupEnd - rowGroupLen
		base := g * rowsPerGroup
		count := len(p.rows) - base
		if count > rowsPerGroup {
			count = rowsPerGroup
		}
		var present uint16
		for i := 0; i < count; i++ {
			rowIdx := base + i
			slot := rowsPerGroup - 1 - i
			binary.LittleEndian.PutUint16(buf[groupStart+slot*2:], uint16(rowOffsets[rowIdx]))
			present |= 1 << uint(i)
		}
		binary.LittleEndian.PutUint16(buf[groupStart+32:], present)
		binary.LittleEndian.PutUint16(buf[groupStart+34:], 0)
		groupEnd = groupStart
	}
	return buf
}

// writeHeader lays out the 40-byte page header: zero, the page's own
// index, the next page id in the chain, then flags, row counts and
// used/free sizes.
func writeHeader(buf []byte, p *Page, nextPageID uint32, usedSize, freeSize int) {
	binary.LittleEndian.PutUint32(buf[0x00:], 0)
	binary.LittleEndian.PutUint32(buf[0x04:], p.index)
	binary.LittleEndian.PutUint32(buf[0x08:], nextPageID)
	buf[0x0C] = p.flags
	n := len(p.rows)
	var small, large uint16
	if n <= 255 {
		small = uint16(n)
	} else {
		large = uint16(n)
	}
	binary.LittleEndian.PutUint16(buf[0x10:], small)
	binary.LittleEndian.PutUint16(buf[0x12:], large)
	binary.LittleEndian.PutUint16(buf[0x14:], uint16(usedSize))
	binary.LittleEndian.PutUint16(buf[0x16:], uint16(freeSize))
}
