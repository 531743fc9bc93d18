package ntfs

// ClusterReader is the capability attribute decoding and file reads need
// from the owning volume: a raw, clipped byte read plus the volume's
// cluster size.
type ClusterReader interface {
	ReadAt(offset, size uint64) ([]byte, error)
	ClusterSize() uint64
}

// readRuns stitches size bytes starting at the logical byte offset into a
// run list, per §4.9's read algorithm: walk runs in order, skipping whole
// runs the offset falls past, clipping the run that satisfies the
// remainder, and emitting zero bytes for sparse runs.
func readRuns(cr ClusterReader, vcn VCN, clusterSize, offset, size uint64) ([]byte, error) {
	out := make([]byte, 0, size)
	remainingSkip := offset
	remainingRead := size

	for _, dr := range vcn.Runs {
		if remainingRead == 0 {
			break
		}
		runBytes := dr.Length * clusterSize
		if remainingSkip >= runBytes {
			remainingSkip -= runBytes
			continue
		}

		toRead := remainingSkip + remainingRead
		if toRead > runBytes {
			toRead = runBytes
		}

		if dr.Offset == nil {
			out = append(out, make([]byte, toRead-remainingSkip)...)
		} else {
			physOffset := uint64(*dr.Offset)*clusterSize + remainingSkip
			buf, err := cr.ReadAt(physOffset, toRead-remainingSkip)
			if err != nil {
				return nil, err
			}
			out = append(out, buf...)
		}

		remainingRead -= (toRead - remainingSkip)
		remainingSkip = 0
	}
	return out, nil
}

// materializeRuns reads the entirety of a run list's logical byte range,
// used to eagerly assemble the payload of non-resident, non-$DATA
// attributes (§4.6).
func materializeRuns(cr ClusterReader, vcn VCN, clusterSize uint64) ([]byte, error) {
	return readRuns(cr, vcn, clusterSize, 0, vcn.ClusterCount()*clusterSize)
}
