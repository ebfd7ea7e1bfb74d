package pdbrow

// StandardKeys lists the 24 standard rekordbox keys in canonical order,
// ids 1-24: the 12 majors (Cmaj...Bmaj) followed by the 12 minors
// (Cmin...Bmin), chromatically, matching the ids observed in working
// exports.
var StandardKeys = []string{
	"Cmaj", "C#maj", "Dmaj", "D#maj", "Emaj", "Fmaj",
	"F#maj", "Gmaj", "G#maj", "Amaj", "A#maj", "Bmaj",
	"Cmin", "C#min", "Dmin", "D#min", "Emin", "Fmin",
	"F#min", "Gmin", "G#min", "Amin", "A#min", "Bmin",
}

// StandardColor names an entry of the 8 canonical color-slot colors plus
// the id=0 "no color" entry.
type StandardColor struct {
	ID   uint16
	Name string
}

// StandardColors is the fixed color table: id 0 is "no color", ids 1-8
// are the canonical color slots.
var StandardColors = []StandardColor{
	{0, ""},
	{1, "Pink"},
	{2, "Red"},
	{3, "Orange"},
	{4, "Yellow"},
	{5, "Green"},
	{6, "Aqua"},
	{7, "Blue"},
	{8, "Purple"},
}
