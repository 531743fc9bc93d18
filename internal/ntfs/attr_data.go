package ntfs

// DataAttr decodes $DATA (0x80). Resident streams hold their bytes inline;
// non-resident streams carry only the header's VCN — file-level reads walk
// the data runs directly rather than eagerly materialising the stream.
type DataAttr struct {
	Header   *AttrHeader
	Name     string
	Resident bool
	Inline   []byte
}

func decodeData(h *AttrHeader, record []byte) *DataAttr {
	d := &DataAttr{Header: h, Name: h.Name, Resident: !h.NonResident}
	if d.Resident {
		if payload, err := residentPayload(h, record); err == nil {
			d.Inline = payload
		}
	}
	return d
}

// Compressed reports whether the attribute's compression_unit marks it
// compressed (§7 UnsupportedFeature).
func (d *DataAttr) Compressed() bool {
	return d.Header.NonResident && d.Header.CompressionUnit > 0
}

// Encrypted reports the ENCRYPTED attribute flag (0x4000).
func (d *DataAttr) Encrypted() bool {
	return d.Header.Flags&0x4000 != 0
}

// Size returns the logical size of the stream (actual_size for
// non-resident, inline length for resident).
func (d *DataAttr) Size() uint64 {
	if d.Resident {
		return uint64(len(d.Inline))
	}
	return d.Header.ActualSize
}

// AllocatedSize returns the on-disk allocated size of the stream.
func (d *DataAttr) AllocatedSize() uint64 {
	if d.Resident {
		return uint64(len(d.Inline))
	}
	return d.Header.AllocatedSize
}
