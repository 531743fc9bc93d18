package ntfs

// BitmapAttr decodes $BITMAP (0xB0): bit i of byte (i/8) indicates the
// allocation state of unit i. Its semantics depend on the carrying object
// (MFT allocation map vs. directory-index allocation map); this decoder
// only exposes the raw bits.
type BitmapAttr struct {
	Bits []byte
}

// IsSet reports whether bit i is set, i.e. unit i is allocated.
func (b *BitmapAttr) IsSet(i uint64) bool {
	byteIdx := i / 8
	if byteIdx >= uint64(len(b.Bits)) {
		return false
	}
	return b.Bits[byteIdx]&(1<<(i%8)) != 0
}
