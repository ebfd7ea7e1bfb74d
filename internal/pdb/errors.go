package pdb

import "errors"

// Error taxonomy of the core builders. Every failure is fatal to the
// build; nothing is retried internally and partial output is discarded
// by the caller. Build returns ErrPlaylistCycle itself; the other
// failures reach callers as the sentinels of the package that detects
// them (pdbpage.ErrRowTooLarge, dsql.ErrStringTooLong,
// pdbtable.ErrIDConflict, anlz.ErrAnalysisSizeMismatch,
// anlz.ErrPaletteIndexOutOfRange), not as the values of the same name
// below.
var (
	ErrRowTooLarge           = errors.New("pdb: row body plus strings exceeds page capacity")
	ErrStringTooLong         = errors.New("pdb: encoded string length exceeds u16")
	ErrIDConflict            = errors.New("pdb: two rows in the same table share an id")
	ErrPlaylistCycle         = errors.New("pdb: playlist parent chain contains a cycle or dangling parent")
	ErrAnalysisSizeMismatch  = errors.New("pdb: analysis payload has the wrong sample count")
	ErrPaletteIndexOutOfRange = errors.New("pdb: hot cue color index is out of range")
)
