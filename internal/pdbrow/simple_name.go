package pdbrow

import (
	"encoding/binary"

	"rekordboxusb/internal/dsql"
)

// EncodeGenre produces the genre_row body: id (u32) then the name
// string. Genre rows ride pages with flag 0x34.
func EncodeGenre(id uint32, name string) ([]byte, error) {
	return encodeIDAndName(id, name)
}

// EncodeLabel produces the label_row body: id (u32) then the name
// string.
func EncodeLabel(id uint32, name string) ([]byte, error) {
	return encodeIDAndName(id, name)
}

func encodeIDAndName(id uint32, name string) ([]byte, error) {
	body := make([]byte, 4)
	binary.LittleEndian.PutUint32(body[0:], id)
	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, err
	}
	return append(body, enc...), nil
}

// EncodeKey produces the key_row body: id, id2 (= id), then the name
// string.
func EncodeKey(id uint32, name string) ([]byte, error) {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint32(body[0:], id)
	binary.LittleEndian.PutUint32(body[4:], id)
	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, err
	}
	return append(body, enc...), nil
}

// EncodeColor produces the color_row body: 5 zero bytes, id (u16),
// unknown (u8 = 0), then the name string.
func EncodeColor(id uint16, name string) ([]byte, error) {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint16(body[5:], id)
	body[7] = 0
	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, err
	}
	return append(body, enc...), nil
}

// EncodeArtwork produces the artwork_row body: id (u32) then the path
// string.
func EncodeArtwork(id uint32, path string) ([]byte, error) {
	return encodeIDAndName(id, path)
}
