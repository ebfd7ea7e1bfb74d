// Package pdbtable groups encoded row bodies into chains of pdbpage
// pages, threading index-patch offsets through, and emits the index and
// placeholder pages each table needs.
package pdbtable

import (
	"encoding/binary"
	"fmt"

	"rekordboxusb/internal/pdbpage"
	"rekordboxusb/internal/pdbrow"
)

// RowID pairs an encoded row body with the row's own database id, used
// to build the index page's (first_row_id_on_page, page_id) pairs and to
// detect duplicate ids within a table.
type RowID struct {
	ID   uint32
	Body []byte
	// StringRefs are the row's unresolved ofs_string placeholders,
	// patched once the row's final heap offset is known.
	StringRefs []pdbrow.StringRef
	// IndexShiftSetter patches this row's index_shift field once its
	// final heap offset is known; nil for row kinds without one.
	IndexShiftSetter func(body []byte, heapOffset uint32)
}

// ErrIDConflict is returned when two rows in the same table share an id.
var ErrIDConflict = fmt.Errorf("pdbtable: duplicate row id within table")

// Built is the result of building one table: its page bodies in file
// order, and the descriptor fields the PDB assembler needs.
type Built struct {
	Pages        [][pdbpage.Size]byte
	FirstPageID  uint32 // file-wide page id of the first page (= startPageID)
	LastPageID   uint32
	IndexPageID  uint32 // 0 if no index page
	PageCount    int
}

// Build assembles rows into a page chain starting at startPageID
// (the file-wide page id the first emitted page will receive). flags is
// the page flag for data pages (FlagData or FlagGenres); pageType is the
// table's type code, passed to each page but not written into the page
// header (the table type is recorded only in the file header).
//
// If rows is empty, a single placeholder page (flags=0x00) is emitted
// and no index page is produced.
func Build(startPageID uint32, pageType uint32, flags byte, rows []RowID) (Built, error) {
	if len(rows) == 0 {
		p := pdbpage.New(startPageID, pageType, pdbpage.FlagPlaceholder)
		return Built{
			Pages:       [][pdbpage.Size]byte{p.Finalize(0)},
			FirstPageID: startPageID,
			LastPageID:  startPageID,
			PageCount:   1,
		}, nil
	}

	seen := make(map[uint32]bool, len(rows))
	for _, r := range rows {
		if seen[r.ID] {
			return Built{}, ErrIDConflict
		}
		seen[r.ID] = true
	}

	var pages [][pdbpage.Size]byte
	var pagesInProgress []*pdbpage.Page
	// firstRowIDOnPage[i] corresponds to pagesInProgress[i].
	var firstRowIDOnPage []uint32

	cur := pdbpage.New(startPageID+uint32(len(pagesInProgress)), pageType, flags)
	pagesInProgress = append(pagesInProgress, cur)
	firstRowIDOnPage = append(firstRowIDOnPage, rows[0].ID)

	for _, r := range rows {
		off, ok, err := cur.TryAppendRow(r.Body)
		if err != nil {
			return Built{}, err
		}
		if !ok {
			cur = pdbpage.New(startPageID+uint32(len(pagesInProgress)), pageType, flags)
			pagesInProgress = append(pagesInProgress, cur)
			firstRowIDOnPage = append(firstRowIDOnPage, r.ID)
			off, ok, err = cur.TryAppendRow(r.Body)
			if err != nil {
				return Built{}, err
			}
			if !ok {
				return Built{}, fmt.Errorf("pdbtable: row %d does not fit on a fresh page", r.ID)
			}
		}
		if r.IndexShiftSetter != nil {
			r.IndexShiftSetter(r.Body, off)
		}
		if len(r.StringRefs) > 0 {
			pdbrow.ApplyStringOffsets(r.Body, r.StringRefs, off)
		}
	}

	for i, p := range pagesInProgress {
		var next uint32
		if i < len(pagesInProgress)-1 {
			next = p.Index() + 1
		}
		pages = append(pages, p.Finalize(next))
	}

	firstPageID := startPageID
	lastPageID := startPageID + uint32(len(pagesInProgress)) - 1
	indexPageID := uint32(0)

	// Always produce one index page per non-empty table.
	// 4 point 3 ("currently: always produce a single index page").
	idxPageIndex := lastPageID + 1
	idx := pdbpage.New(idxPageIndex, pageType, pdbpage.FlagIndex)
	for i, rowID := range firstRowIDOnPage {
		entry := make([]byte, 8)
		binary.LittleEndian.PutUint32(entry[0:], rowID)
		binary.LittleEndian.PutUint32(entry[4:], startPageID+uint32(i))
		if _, ok, err := idx.TryAppendRow(entry); err != nil {
			return Built{}, err
		} else if !ok {
			// An index page itself is never expected to overflow for
			// the table sizes this format supports; surfacing this as
			// an error keeps the failure visible rather than silently
			// truncating the index.
			return Built{}, fmt.Errorf("pdbtable: index page overflow for table type %d", pageType)
		}
	}
	pages = append(pages, idx.Finalize(0))
	indexPageID = idxPageIndex

	return Built{
		Pages:       pages,
		FirstPageID: firstPageID,
		LastPageID:  lastPageID,
		IndexPageID: indexPageID,
		PageCount:   len(pages),
	}, nil
}
