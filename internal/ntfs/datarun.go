package ntfs

import "fmt"

// DataRun describes a contiguous extent of clusters belonging to a
// non-resident attribute. Offset is nil for a sparse run.
type DataRun struct {
	Length uint64 // in clusters
	Offset *int64 // absolute physical cluster number, nil if sparse
}

// VCN is the materialised run list of a non-resident attribute: an ordered
// sequence of DataRun covering virtual cluster numbers [0, sum(Length)).
type VCN struct {
	Runs []DataRun
}

// ClusterCount returns the total number of virtual clusters the run list
// covers.
func (v VCN) ClusterCount() uint64 {
	var n uint64
	for _, r := range v.Runs {
		n += r.Length
	}
	return n
}

// readUint reads an n-byte little-endian unsigned integer, n in [0,8].
func readUint(buf []byte) uint64 {
	var v uint64
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(buf[i])
	}
	return v
}

// readInt reads an n-byte little-endian signed integer (two's complement),
// sign-extending from the top bit of the last byte, n in [0,8].
func readInt(buf []byte) int64 {
	if len(buf) == 0 {
		return 0
	}
	v := readUint(buf)
	// sign-extend: if the high bit of the most significant byte is set,
	// fill the remaining bits with 1s.
	if buf[len(buf)-1]&0x80 != 0 {
		v |= ^uint64(0) << (8 * uint(len(buf)))
	}
	return int64(v)
}

// ParseDataRuns decodes a run-list starting at offset start in buf, per the
// header-byte { n_off:4 | n_len:4 } encoding terminated by a zero header
// byte. It returns the byte offset immediately past the terminator and the
// list of runs with offsets still expressed as signed deltas relative to
// the previous run (not yet accumulated into absolute cluster numbers);
// callers use AccumulateOffsets to obtain absolute LCNs.
func ParseDataRuns(buf []byte, start int) (int, []DataRun, error) {
	var runs []DataRun
	p := start

	for p < len(buf) {
		header := buf[p]
		if header == 0 {
			p++
			return p, runs, nil
		}

		nLen := int(header & 0x0F)
		nOff := int(header >> 4)

		lenStart := p + 1
		lenEnd := lenStart + nLen
		if lenEnd > len(buf) {
			return 0, nil, errMalformed("data run length field", fmt.Errorf("overflow at offset %d", p))
		}
		length := readUint(buf[lenStart:lenEnd])

		var delta *int64
		offEnd := lenEnd
		if nOff != 0 {
			offEnd = lenEnd + nOff
			if offEnd > len(buf) {
				return 0, nil, errMalformed("data run offset field", fmt.Errorf("overflow at offset %d", p))
			}
			d := readInt(buf[lenEnd:offEnd])
			delta = &d
		}

		runs = append(runs, DataRun{Length: length, Offset: delta})
		p = offEnd
	}

	return 0, nil, errMalformed("data run list", fmt.Errorf("missing terminating zero header"))
}

// AccumulateOffsets replaces each run's signed delta (relative to the
// previous concrete run) with the running sum, producing absolute physical
// cluster numbers. Sparse runs (Offset == nil) are left untouched and do
// not participate in the accumulation.
func AccumulateOffsets(runs []DataRun) VCN {
	var cum int64
	out := make([]DataRun, len(runs))
	for i, r := range runs {
		if r.Offset == nil {
			out[i] = r
			continue
		}
		cum += *r.Offset
		abs := cum
		out[i] = DataRun{Length: r.Length, Offset: &abs}
	}
	return VCN{Runs: out}
}

// DecodeDataRuns parses and accumulates a run-list in one step, the form
// every attribute decoder actually wants.
func DecodeDataRuns(buf []byte, start int) (int, VCN, error) {
	next, runs, err := ParseDataRuns(buf, start)
	if err != nil {
		return 0, VCN{}, err
	}
	return next, AccumulateOffsets(runs), nil
}
