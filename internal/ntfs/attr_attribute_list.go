package ntfs

import (
	"encoding/binary"
	"fmt"
)

// AttributeListEntry is one variable-length record of $ATTRIBUTE_LIST
// (0x20), pointing at an attribute that may live in another MFT entry.
type AttributeListEntry struct {
	TypeID      AttrType
	EntrySize   uint16
	NameSize    uint8
	NameOffset  uint8
	StartingVCN uint64
	FileRef     FileRef
	AttrID      uint16
	Name        string
}

// decodeAttributeList walks the variable-length AttributeEntry records
// until the payload is exhausted.
func decodeAttributeList(b []byte) ([]AttributeListEntry, error) {
	var entries []AttributeListEntry
	p := 0

	for p < len(b) {
		if p+0x1A > len(b) {
			break
		}
		entrySize := binary.LittleEndian.Uint16(b[p+0x04 : p+0x06])
		if entrySize == 0 || p+int(entrySize) > len(b) {
			return entries, errMalformed("$ATTRIBUTE_LIST entry", fmt.Errorf("bad entry_size %d at %d", entrySize, p))
		}

		e := AttributeListEntry{
			TypeID:      AttrType(binary.LittleEndian.Uint32(b[p+0x00 : p+0x04])),
			EntrySize:   entrySize,
			NameSize:    b[p+0x06],
			NameOffset:  b[p+0x07],
			StartingVCN: binary.LittleEndian.Uint64(b[p+0x08 : p+0x10]),
			FileRef:     ParseFileRef(b[p+0x10 : p+0x18]),
			AttrID:      binary.LittleEndian.Uint16(b[p+0x18 : p+0x1A]),
		}

		if e.NameSize > 0 {
			nameStart := p + int(e.NameOffset)
			nameEnd := nameStart + int(e.NameSize)*2
			if nameEnd <= len(b) {
				e.Name = decodeUTF16LE(b[nameStart:nameEnd])
			}
		}

		entries = append(entries, e)
		p += int(entrySize)
	}
	return entries, nil
}

// resolveAttributeList expands every $ATTRIBUTE_LIST in attrs: the
// referenced external MFT entries contribute their own attrs to the
// effective set, skipping self-references to avoid cycles. Per §8's
// dedup invariant, (type_id, name, attr_id) triples are never duplicated.
func resolveAttributeList(selfInode uint64, attrs []TypedAttr, resolver EntryResolver) []TypedAttr {
	var list []AttributeListEntry
	for _, a := range attrs {
		if a.AttributeList != nil {
			list = append(list, a.AttributeList...)
		}
	}
	if len(list) == 0 {
		return attrs
	}

	seen := make(map[[3]uint64]bool)
	key := func(typeID AttrType, name string, attrID uint16) [3]uint64 {
		var nameHash uint64
		for _, r := range name {
			nameHash = nameHash*131 + uint64(r)
		}
		return [3]uint64{uint64(typeID), nameHash, uint64(attrID)}
	}
	for _, a := range attrs {
		seen[key(a.Type(), a.Name(), a.Header.AttrID)] = true
	}

	effective := append([]TypedAttr{}, attrs...)
	visitedInodes := map[uint64]bool{selfInode: true}

	for _, e := range list {
		if e.FileRef.Inode == selfInode {
			continue
		}
		if visitedInodes[e.FileRef.Inode] {
			continue
		}
		visitedInodes[e.FileRef.Inode] = true

		other, err := resolver.FindEntry(e.FileRef.Inode)
		if err != nil || other == nil {
			continue
		}
		for _, a := range other.Attrs {
			k := key(a.Type(), a.Name(), a.Header.AttrID)
			if seen[k] {
				continue
			}
			seen[k] = true
			effective = append(effective, a)
		}
	}
	return effective
}
