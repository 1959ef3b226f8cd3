package btree

import (
	"bytes"
	"encoding/binary"

	"github.com/wanderingj/db/internal/storage"
)

// DefaultKeySize is the key width used when Options does not set one.
const DefaultKeySize = 8

// Comparator defines a total order over keys. It returns a negative
// number if a < b, zero if a == b, and a positive number if a > b.
type Comparator func(a, b []byte) int

// CompareBytes orders keys lexicographically.
func CompareBytes(a, b []byte) int {
	return bytes.Compare(a, b)
}

// CompareInt64Keys orders 8-byte keys produced by Int64Key by their
// signed integer value.
func CompareInt64Keys(a, b []byte) int {
	x := Int64FromKey(a)
	y := Int64FromKey(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Int64Key encodes a signed 64-bit integer as an 8-byte little-endian
// key. Use CompareInt64Keys as the comparator for keys built this way.
func Int64Key(v int64) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, uint64(v))
	return key
}

// Int64FromKey decodes a key produced by Int64Key.
func Int64FromKey(key []byte) int64 {
	return int64(binary.LittleEndian.Uint64(key))
}

// RID identifies a record stored outside the index: the page holding
// the record and its slot within that page.
type RID struct {
	PageID storage.PageID
	Slot   uint32
}

// ridSize is the on-page size of a RID.
const ridSize = 8

// writeRID encodes a RID into buf.
func writeRID(buf []byte, rid RID) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(rid.PageID))
	binary.LittleEndian.PutUint32(buf[4:8], rid.Slot)
}

// readRID decodes a RID from buf.
func readRID(buf []byte) RID {
	return RID{
		PageID: storage.PageID(binary.LittleEndian.Uint32(buf[0:4])),
		Slot:   binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// copyKey returns a copy of key that is safe to retain after the frame
// it came from is unpinned.
func copyKey(key []byte) []byte {
	out := make([]byte, len(key))
	copy(out, key)
	return out
}
