package ntfs

import (
	"encoding/binary"
	"fmt"
)

// IndexEntry is one entry of a directory B+-tree node, shared by
// $INDEX_ROOT and $INDEX_ALLOCATION (§4.7).
type IndexEntry struct {
	FileRef     FileRef
	EntrySize   uint16
	ContentSize uint16
	Flags       uint32

	FileName *FileNameAttr
	ChildVCN *uint64
}

const (
	indexEntryFlagHasChild = 0x01
	indexEntryFlagLast     = 0x02
	indexEntryHeaderSize   = 0x10
)

// HasChild reports bit 0 of Flags.
func (e *IndexEntry) HasChild() bool { return e.Flags&indexEntryFlagHasChild != 0 }

// IsLast reports bit 1 of Flags: a sentinel, not a real file.
func (e *IndexEntry) IsLast() bool { return e.Flags&indexEntryFlagLast != 0 }

// parseIndexEntries walks a stream of IndexEntry records in [start, end)
// of buf, stopping at (and including) the first entry flagged "last".
func parseIndexEntries(buf []byte, start, end int, indexedAttrType uint32) ([]IndexEntry, error) {
	var entries []IndexEntry
	p := start

	for p < end {
		if p+indexEntryHeaderSize > end {
			return entries, errMalformed("index entry header", fmt.Errorf("truncated at %d", p))
		}

		e := IndexEntry{
			FileRef:     ParseFileRef(buf[p : p+8]),
			EntrySize:   binary.LittleEndian.Uint16(buf[p+0x08 : p+0x0A]),
			ContentSize: binary.LittleEndian.Uint16(buf[p+0x0A : p+0x0C]),
			Flags:       binary.LittleEndian.Uint32(buf[p+0x0C : p+0x10]),
		}
		if e.EntrySize == 0 || p+int(e.EntrySize) > end {
			return entries, errMalformed("index entry", fmt.Errorf("bad entry_size %d at %d", e.EntrySize, p))
		}

		if !e.IsLast() && e.ContentSize > 0 && indexedAttrType == uint32(AttrFileName) {
			payloadStart := p + indexEntryHeaderSize
			payloadEnd := payloadStart + int(e.ContentSize)
			if payloadEnd <= end {
				if fn, err := decodeFileName(buf[payloadStart:payloadEnd]); err == nil {
					e.FileName = fn
				}
			}
		}

		if e.HasChild() {
			vcnOff := p + int(e.EntrySize) - 8
			if vcnOff >= p && vcnOff+8 <= end {
				v := binary.LittleEndian.Uint64(buf[vcnOff : vcnOff+8])
				e.ChildVCN = &v
			}
		}

		entries = append(entries, e)
		if e.IsLast() {
			break
		}
		p += int(e.EntrySize)
	}
	return entries, nil
}
