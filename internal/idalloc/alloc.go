// Package idalloc assigns the numeric ids that end up in the exported
// database: track and playlist ids. Ids are allocated
// monotonically per kind in first-seen order; an optional SQLite-backed
// cache keeps assignments stable across repeated builds of the same
// library, which matters because CDJ history features key off the track
// id surviving a re-export.
package idalloc

import (
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Kind names one id namespace. Ids are unique within a kind only.
type Kind string

const (
	KindTrack    Kind = "track"
	KindPlaylist Kind = "playlist"
)

// Allocator hands out ids for natural keys (a track's library-relative
// path, a playlist's folder name).
// It is not safe for concurrent use; the caller serializes id
// allocation the same way it serializes PDB assembly.
type Allocator struct {
	next  map[Kind]uint32
	ids   map[Kind]map[string]uint32
	cache *Cache // nil = fresh ids every run
}

// New returns an Allocator that assigns fresh ids starting at 1 every
// run, with no persistence.
func New() *Allocator {
	return &Allocator{
		next: make(map[Kind]uint32),
		ids:  make(map[Kind]map[string]uint32),
	}
}

// NewWithCache returns an Allocator backed by a persistent cache.
// Previously seen keys get their cached id back; new keys are assigned
// ids above the cache's high-water mark and stored for the next run.
func NewWithCache(c *Cache) *Allocator {
	a := New()
	a.cache = c
	return a
}

// IDFor returns the id for key within kind, allocating one on first
// sight. Allocation never fails; cache read/write errors degrade to
// fresh in-memory assignment.
func (a *Allocator) IDFor(kind Kind, key string) uint32 {
	m, ok := a.ids[kind]
	if !ok {
		m = make(map[string]uint32)
		a.ids[kind] = m
		a.next[kind] = 1
		if a.cache != nil {
			if max, err := a.cache.MaxID(kind); err == nil && max >= a.next[kind] {
				a.next[kind] = max + 1
			}
		}
	}
	if id, ok := m[key]; ok {
		return id
	}

	if a.cache != nil {
		if id, ok, err := a.cache.Lookup(kind, key); err == nil && ok {
			m[key] = id
			if id >= a.next[kind] {
				a.next[kind] = id + 1
			}
			return id
		}
	}

	id := a.next[kind]
	a.next[kind]++
	m[key] = id
	if a.cache != nil {
		a.cache.Store(kind, key, id)
	}
	return id
}

// FileDigest hashes a file's contents with BLAKE2b-256 and returns the
// hex digest. Used as the artwork natural key so the same image file
// dedups to one artwork id regardless of where it lives on disk.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// keyDigest hashes a natural key for storage in the cache, keeping
// arbitrarily long paths out of the index.
func keyDigest(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
