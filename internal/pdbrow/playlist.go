package pdbrow

import (
	"encoding/binary"

	"rekordboxusb/internal/dsql"
)

// EncodePlaylistTree produces a playlist_tree_row body: parent_id,
// unknown(=0), sort_order, id, is_folder, then the name string.
func EncodePlaylistTree(parentID, sortOrder, id uint32, isFolder bool, name string) ([]byte, error) {
	body := make([]byte, 20)
	binary.LittleEndian.PutUint32(body[0:], parentID)
	binary.LittleEndian.PutUint32(body[4:], 0)
	binary.LittleEndian.PutUint32(body[8:], sortOrder)
	binary.LittleEndian.PutUint32(body[12:], id)
	var folderFlag uint32
	if isFolder {
		folderFlag = 1
	}
	binary.LittleEndian.PutUint32(body[16:], folderFlag)

	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, err
	}
	return append(body, enc...), nil
}

// EncodePlaylistEntry produces a playlist_entry_row body: entry_index,
// track_id, playlist_id. No strings.
func EncodePlaylistEntry(entryIndex, trackID, playlistID uint32) []byte {
	body := make([]byte, 12)
	binary.LittleEndian.PutUint32(body[0:], entryIndex)
	binary.LittleEndian.PutUint32(body[4:], trackID)
	binary.LittleEndian.PutUint32(body[8:], playlistID)
	return body
}
