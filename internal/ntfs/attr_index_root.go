package ntfs

import (
	"encoding/binary"
	"fmt"
)

// IndexRootAttr decodes $INDEX_ROOT (0x90): a resident B+-tree root.
type IndexRootAttr struct {
	IndexedAttrType        uint32
	CollationRule          uint32
	BytesPerIndexRecord    uint32
	ClustersPerIndexRecord uint8

	NodeOffset       uint32
	NodeTotalSize    uint32
	NodeAllocSize    uint32
	NodeFlag         uint8

	Entries []IndexEntry
}

const indexRootHeaderSize = 0x10

// IsLargeIndex reports whether the root node points at out-of-line
// $INDEX_ALLOCATION records (bit 0 of the node flag).
func (r *IndexRootAttr) IsLargeIndex() bool { return r.NodeFlag&0x01 != 0 }

func decodeIndexRoot(b []byte) (*IndexRootAttr, error) {
	if len(b) < indexRootHeaderSize+indexEntryHeaderSize {
		return nil, errMalformed("$INDEX_ROOT", fmt.Errorf("payload too short: %d bytes", len(b)))
	}

	r := &IndexRootAttr{
		IndexedAttrType:        binary.LittleEndian.Uint32(b[0x00:0x04]),
		CollationRule:          binary.LittleEndian.Uint32(b[0x04:0x08]),
		BytesPerIndexRecord:    binary.LittleEndian.Uint32(b[0x08:0x0C]),
		ClustersPerIndexRecord: b[0x0C],
	}

	nodeBase := indexRootHeaderSize
	r.NodeOffset = binary.LittleEndian.Uint32(b[nodeBase+0x00 : nodeBase+0x04])
	r.NodeTotalSize = binary.LittleEndian.Uint32(b[nodeBase+0x04 : nodeBase+0x08])
	r.NodeAllocSize = binary.LittleEndian.Uint32(b[nodeBase+0x08 : nodeBase+0x0C])
	r.NodeFlag = b[nodeBase+0x0C]

	entriesStart := nodeBase + int(r.NodeOffset)
	entriesEnd := nodeBase + int(r.NodeTotalSize)
	if entriesEnd > len(b) {
		entriesEnd = len(b)
	}
	if entriesStart > entriesEnd {
		return r, errMalformed("$INDEX_ROOT entries", fmt.Errorf("bad offset/size"))
	}

	entries, err := parseIndexEntries(b, entriesStart, entriesEnd, r.IndexedAttrType)
	if err != nil {
		return r, err
	}
	r.Entries = entries
	return r, nil
}

// ChildVCNs returns every child_vcn advertised by the root's entries, the
// seed work-list for walking $INDEX_ALLOCATION.
func (r *IndexRootAttr) ChildVCNs() []uint64 {
	var out []uint64
	for _, e := range r.Entries {
		if e.ChildVCN != nil {
			out = append(out, *e.ChildVCN)
		}
	}
	return out
}
