// Package pdbvalidate structurally validates a produced export.pdb:
// page alignment, file-header sanity, table-pointer targets, and a walk
// of every table's page chain with row counting. It is test tooling for
// the write path, not part of it.
package pdbvalidate

import (
	"encoding/binary"
	"fmt"
)

const (
	pageSize  = 4096
	heapStart = 0x28
	numTables = 20
)

// Stats summarizes the row population of a validated file.
type Stats struct {
	TotalPages         uint32
	TrackCount         uint32
	ArtistCount        uint32
	AlbumCount         uint32
	GenreCount         uint32
	KeyCount           uint32
	PlaylistCount      uint32
	PlaylistEntryCount uint32
}

// Result carries the outcome of one validation run. Errors mark the
// file unusable; warnings flag oddities a CDJ may still accept.
type Result struct {
	Valid    bool
	Stats    Stats
	Errors   []string
	Warnings []string
}

func (r *Result) addError(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks data as an export.pdb byte stream and returns
// detailed results. It never panics on malformed input.
func Validate(data []byte) *Result {
	result := &Result{Valid: true}

	if len(data) < pageSize {
		result.addError("file too small: %d bytes (minimum %d bytes for header page)", len(data), pageSize)
		return result
	}
	if len(data)%pageSize != 0 {
		result.addError("file size %d is not a multiple of page size %d", len(data), pageSize)
		return result
	}

	actualPages := uint32(len(data) / pageSize)
	header := data[:pageSize]

	if ps := binary.LittleEndian.Uint32(header[0x04:]); ps != pageSize {
		result.addError("invalid page_size in header: %d (expected %d)", ps, pageSize)
		return result
	}

	tables := binary.LittleEndian.Uint32(header[0x08:])
	if tables != numTables {
		result.addWarning("unusual table count: %d (expected %d)", tables, numTables)
	}

	nextUnused := binary.LittleEndian.Uint32(header[0x0C:])
	result.Stats.TotalPages = nextUnused
	if nextUnused > actualPages {
		result.addError("header next_unused_page (%d) exceeds actual page count (%d)", nextUnused, actualPages)
	}

	// Table pointers: 20 slots of 16 bytes starting at 0x10.
	for i := uint32(0); i < numTables; i++ {
		slot := header[0x10+i*16 : 0x10+i*16+16]
		first := binary.LittleEndian.Uint32(slot[0:])
		last := binary.LittleEndian.Uint32(slot[8:])
		tableType := binary.LittleEndian.Uint32(slot[12:])

		if first == 0 && last == 0 && tableType == 0 && i != 0 {
			// Absent table. The tracks slot (type 0) is never treated
			// as absent: an all-zero slot 0 fails the range checks below.
			continue
		}
		if tableType != i {
			result.addError("table slot %d declares type %d", i, tableType)
			continue
		}
		if first == 0 || first >= actualPages {
			result.addError("table %d first_page %d out of range", i, first)
			continue
		}
		if last == 0 || last >= actualPages {
			result.addError("table %d last_page %d out of range", i, last)
			continue
		}

		rows := walkChain(data, i, first, last, actualPages, result)
		switch i {
		case 0:
			result.Stats.TrackCount = rows
		case 1:
			result.Stats.GenreCount = rows
		case 2:
			result.Stats.ArtistCount = rows
		case 3:
			result.Stats.AlbumCount = rows
		case 5:
			result.Stats.KeyCount = rows
		case 7:
			result.Stats.PlaylistCount = rows
		case 8:
			result.Stats.PlaylistEntryCount = rows
		}
	}

	return result
}

// walkChain follows one table's page chain from first, checking each
// page's header invariants, and returns the total row count. The walk
// is bounded by the page count so a corrupted next_page loop cannot
// hang it.
func walkChain(data []byte, table, first, last, actualPages uint32, result *Result) uint32 {
	var rows uint32
	pageID := first
	for steps := uint32(0); steps <= actualPages; steps++ {
		if pageID >= actualPages {
			result.addError("table %d chain reaches out-of-range page %d", table, pageID)
			return rows
		}
		page := data[pageID*pageSize : (pageID+1)*pageSize]

		if ownIndex := binary.LittleEndian.Uint32(page[0x04:]); ownIndex != pageID {
			result.addError("page %d header records index %d", pageID, ownIndex)
		}

		used := binary.LittleEndian.Uint16(page[0x14:])
		free := binary.LittleEndian.Uint16(page[0x16:])
		if int(used)+int(free)+heapStart != pageSize {
			result.addError("page %d: used (%d) + free (%d) + %#x != %d", pageID, used, free, heapStart, pageSize)
		}

		small := binary.LittleEndian.Uint16(page[0x10:])
		large := binary.LittleEndian.Uint16(page[0x12:])
		if small != 0 && large != 0 {
			result.addWarning("page %d sets both row count fields (%d, %d)", pageID, small, large)
		}
		if large != 0 {
			rows += uint32(large)
		} else {
			rows += uint32(small)
		}

		next := binary.LittleEndian.Uint32(page[0x08:])
		if next == 0 {
			if pageID != last {
				result.addError("table %d chain ends at page %d, pointer says last is %d", table, pageID, last)
			}
			return rows
		}
		pageID = next
	}
	result.addError("table %d page chain does not terminate", table)
	return rows
}
