package pdbpage

import (
	"encoding/binary"
	"testing"
)

func TestEmptyPlaceholderPage(t *testing.T) {
	p := New(3, 0, FlagPlaceholder)
	buf := p.Finalize(0)
	if binary.LittleEndian.Uint32(buf[0x04:]) != 3 {
		t.Errorf("page index = %d, want 3", binary.LittleEndian.Uint32(buf[0x04:]))
	}
	for i := 0x28; i < Size; i++ {
		if buf[i] != 0 {
			t.Fatalf("placeholder page body not zero at offset %#x", i)
		}
	}
}

func TestSizeFormulaInvariant(t *testing.T) {
	p := New(1, 0, FlagData)
	for i := 0; i < 20; i++ {
		row := []byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3)}
		if _, ok, err := p.TryAppendRow(row); err != nil {
			t.Fatalf("TryAppendRow: %v", err)
		} else if !ok {
			t.Fatalf("row %d did not fit", i)
		}
	}
	buf := p.Finalize(0)
	used := binary.LittleEndian.Uint16(buf[0x14:])
	free := binary.LittleEndian.Uint16(buf[0x16:])
	if int(used)+int(free)+HeapStart != Size {
		t.Errorf("used(%d)+free(%d)+0x28 = %d, want %d", used, free, int(used)+int(free)+HeapStart, Size)
	}
}

func TestRowGroupReverseOrdering(t *testing.T) {
	p := New(1, 0, FlagData)
	offsets := make([]uint32, 3)
	for i := 0; i < 3; i++ {
		row := []byte{byte(i)}
		off, ok, err := p.TryAppendRow(row)
		if err != nil || !ok {
			t.Fatalf("TryAppendRow(%d): ok=%v err=%v", i, ok, err)
		}
		offsets[i] = off
	}
	buf := p.Finalize(0)
	groupStart := Size - 36
	present := binary.LittleEndian.Uint16(buf[groupStart+32:])
	if present != 0b111 {
		t.Fatalf("presence mask = %03b, want 111", present)
	}
	for i := 0; i < 3; i++ {
		slot := 15 - i
		got := binary.LittleEndian.Uint16(buf[groupStart+slot*2:])
		if uint32(got) != offsets[i] {
			t.Errorf("row_offset[%d] = %d, want %d (row %d)", slot, got, offsets[i], i)
		}
	}
}

func TestTryAppendRowTooLarge(t *testing.T) {
	p := New(1, 0, FlagData)
	huge := make([]byte, Size)
	if _, _, err := p.TryAppendRow(huge); err == nil {
		t.Fatal("expected ErrRowTooLarge")
	}
}

func TestPageFillsUp(t *testing.T) {
	p := New(1, 0, FlagData)
	row := make([]byte, 200)
	n := 0
	for {
		_, ok, err := p.TryAppendRow(row)
		if err != nil {
			t.Fatalf("TryAppendRow: %v", err)
		}
		if !ok {
			break
		}
		n++
	}
	if n == 0 {
		t.Fatal("no rows fit on a fresh page")
	}
	if p.NumRows() != n {
		t.Errorf("NumRows() = %d, want %d", p.NumRows(), n)
	}
}
