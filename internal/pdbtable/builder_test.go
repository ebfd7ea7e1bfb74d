package pdbtable

import (
	"encoding/binary"
	"testing"

	"rekordboxusb/internal/pdbpage"
)

func TestBuildEmptyTableProducesPlaceholder(t *testing.T) {
	built, err := Build(5, 3, pdbpage.FlagData, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.PageCount != 1 {
		t.Fatalf("PageCount = %d, want 1", built.PageCount)
	}
	if built.IndexPageID != 0 {
		t.Errorf("IndexPageID = %d, want 0 for empty table", built.IndexPageID)
	}
	if built.FirstPageID != 5 || built.LastPageID != 5 {
		t.Errorf("FirstPageID/LastPageID = %d/%d, want 5/5", built.FirstPageID, built.LastPageID)
	}
}

func TestBuildDuplicateIDFails(t *testing.T) {
	rows := []RowID{
		{ID: 1, Body: []byte{1, 2, 3}},
		{ID: 1, Body: []byte{4, 5, 6}},
	}
	if _, err := Build(0, 0, pdbpage.FlagData, rows); err != ErrIDConflict {
		t.Fatalf("Build: err = %v, want ErrIDConflict", err)
	}
}

func TestBuildSingleRowEmitsDataAndIndexPage(t *testing.T) {
	rows := []RowID{{ID: 1, Body: []byte{1, 2, 3, 4}}}
	built, err := Build(10, 0, pdbpage.FlagData, rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.PageCount != 2 {
		t.Fatalf("PageCount = %d, want 2 (1 data + 1 index)", built.PageCount)
	}
	if built.IndexPageID != 11 {
		t.Errorf("IndexPageID = %d, want 11", built.IndexPageID)
	}
}

func TestBuildSpillsToMultiplePages(t *testing.T) {
	row := make([]byte, 300)
	var rows []RowID
	for i := uint32(0); i < 20; i++ {
		rows = append(rows, RowID{ID: i + 1, Body: append([]byte(nil), row...)})
	}
	built, err := Build(0, 0, pdbpage.FlagData, rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.PageCount < 3 {
		t.Fatalf("PageCount = %d, want at least 3 (multiple data pages + index)", built.PageCount)
	}
}

func TestBuildLargeRowCountField(t *testing.T) {
	// 256 playlist-entry-sized rows (12 bytes each) fit on a single
	// page; any page holding more than 255 rows must record its count
	// in num_rows_large with num_rows_small zeroed.
	var rows []RowID
	for i := uint32(0); i < 256; i++ {
		rows = append(rows, RowID{ID: i + 1, Body: make([]byte, 12)})
	}
	built, err := Build(1, 8, pdbpage.FlagData, rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.FirstPageID != built.LastPageID {
		t.Fatalf("256 12-byte rows should fit on one page, got %d data pages",
			built.LastPageID-built.FirstPageID+1)
	}
	page := built.Pages[0]
	small := binary.LittleEndian.Uint16(page[0x10:])
	large := binary.LittleEndian.Uint16(page[0x12:])
	if small != 0 {
		t.Errorf("num_rows_small = %d, want 0", small)
	}
	if large != 256 {
		t.Errorf("num_rows_large = %d, want 256", large)
	}
}
