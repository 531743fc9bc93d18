// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package bytewindow provides ByteWindow, a bounded seekable view over a
// shared io.ReaderAt, and DataUnits, a fixed-size-record view over a window.
// Every parser in this module consumes bytes through one of these two types;
// nothing touches the disk source directly.
package bytewindow

import (
	"fmt"
	"io"
)

// RangeViolation is returned whenever a read or seek would cross a window's
// bounds. It is always fatal to the operation that produced it.
type RangeViolation struct {
	Op            string
	Begin, End    uint64
	Offset, Size  uint64
}

func (e *RangeViolation) Error() string {
	return fmt.Sprintf("bytewindow: %s out of range [%d,%d): offset=%d size=%d",
		e.Op, e.Begin, e.End, e.Offset, e.Size)
}

// Source is the shared, stateful byte source every ByteWindow reads from.
// A plain *os.File, an in-memory *bytes.Reader, or anything else exposing
// ReadAt satisfies it; ByteWindow never seeks the underlying source itself,
// since ReadAt is already positional and safe to share across windows.
type Source interface {
	io.ReaderAt
}

// ByteWindow is a bounded view [begin, end) over a shared Source. All
// offsets passed to Read/Seek are relative to begin. Windows are cheap
// value objects: carving a sub-window never copies bytes.
type ByteWindow struct {
	src   Source
	begin uint64
	end   uint64
	pos   uint64

	sectorSize  uint64
	clusterSize uint64
}

// New builds a window covering [begin, begin+size) of src.
func New(src Source, begin, size uint64) *ByteWindow {
	return &ByteWindow{src: src, begin: begin, end: begin + size, pos: begin}
}

// WithSectors attaches a sector-size facet, enabling Sectors().
func (w *ByteWindow) WithSectors(sectorSize uint64) *ByteWindow {
	w.sectorSize = sectorSize
	return w
}

// WithClusters attaches a cluster-size facet, enabling Clusters().
func (w *ByteWindow) WithClusters(clusterSize uint64) *ByteWindow {
	w.clusterSize = clusterSize
	return w
}

// Begin returns the absolute start offset of the window in the source.
func (w *ByteWindow) Begin() uint64 { return w.begin }

// End returns the absolute end offset (exclusive) of the window.
func (w *ByteWindow) End() uint64 { return w.end }

// Size returns the window's length in bytes.
func (w *ByteWindow) Size() uint64 { return w.end - w.begin }

// Sub carves a child window relative to this one, covering
// [begin+offset, begin+offset+size). The child is still backed by the same
// Source and is bounds-checked against the parent.
func (w *ByteWindow) Sub(offset, size uint64) (*ByteWindow, error) {
	abs := w.begin + offset
	if offset > w.Size() || abs+size > w.end {
		return nil, &RangeViolation{Op: "sub", Begin: w.begin, End: w.end, Offset: offset, Size: size}
	}
	return New(w.src, abs, size), nil
}

// Seek sets the read position to begin+offset. Fails if the resulting
// position falls outside [begin, end).
func (w *ByteWindow) Seek(offset uint64) error {
	abs := w.begin + offset
	if abs < w.begin || abs >= w.end {
		// Seeking exactly to end is allowed only when the window is empty
		// and offset is 0; otherwise treat as a RangeViolation.
		if !(abs == w.end && offset == 0) {
			return &RangeViolation{Op: "seek", Begin: w.begin, End: w.end, Offset: offset}
		}
	}
	w.pos = abs
	return nil
}

// Read reads exactly size bytes at the window's current position and
// advances the cursor by size. ReadAt is the explicit-offset form.
func (w *ByteWindow) Read(size uint64) ([]byte, error) {
	buf, err := w.ReadAt(size, w.pos-w.begin)
	if err != nil {
		return nil, err
	}
	w.pos += size
	return buf, nil
}

// ReadAt reads exactly size bytes at begin+offset without moving the
// window's cursor. Fails if offset+size exceeds end.
func (w *ByteWindow) ReadAt(size, offset uint64) ([]byte, error) {
	abs := w.begin + offset
	if offset > w.Size() || abs+size > w.end {
		return nil, &RangeViolation{Op: "read", Begin: w.begin, End: w.end, Offset: offset, Size: size}
	}
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	n, err := w.src.ReadAt(buf, int64(abs))
	if err != nil && !(err == io.EOF && uint64(n) == size) {
		return nil, fmt.Errorf("bytewindow: read at %d: %w", abs, err)
	}
	return buf, nil
}

// Sectors exposes the window as a DataUnits sequence of sector-sized
// records. If WithSectors was never called the sequence is empty
// (Count() == 0); HasSectors reports whether the facet is attached.
func (w *ByteWindow) Sectors() *DataUnits {
	return newDataUnits(w, w.sectorSize)
}

// Clusters exposes the window as a DataUnits sequence of cluster-sized
// records.
func (w *ByteWindow) Clusters() *DataUnits {
	return newDataUnits(w, w.clusterSize)
}

// HasSectors reports whether a sector-size facet was attached.
func (w *ByteWindow) HasSectors() bool { return w.sectorSize > 0 }

// HasClusters reports whether a cluster-size facet was attached.
func (w *ByteWindow) HasClusters() bool { return w.clusterSize > 0 }

// DataUnits presents a ByteWindow as a sequence of floor(W/U) fixed-size
// records. Per the design notes, indexing and slicing are split into two
// operations rather than one overloaded accessor.
type DataUnits struct {
	window   *ByteWindow
	unitSize uint64
	count    uint64
}

func newDataUnits(w *ByteWindow, unitSize uint64) *DataUnits {
	if unitSize == 0 {
		return &DataUnits{window: w, unitSize: 0, count: 0}
	}
	return &DataUnits{window: w, unitSize: unitSize, count: w.Size() / unitSize}
}

// NewDataUnits builds a DataUnits view directly over a window with an
// explicit unit size, for callers (attribute decoders) that need a view
// not already exposed as Sectors()/Clusters().
func NewDataUnits(w *ByteWindow, unitSize uint64) *DataUnits {
	return newDataUnits(w, unitSize)
}

// UnitSize returns the fixed record size of the sequence.
func (d *DataUnits) UnitSize() uint64 { return d.unitSize }

// Count returns the number of whole units the window contains.
func (d *DataUnits) Count() uint64 { return d.count }

// At reads unit i. Negative indices (i < 0) count from the end, i.e. -1 is
// the last unit. Out-of-range access is a RangeViolation.
func (d *DataUnits) At(i int64) ([]byte, error) {
	idx, err := d.resolveIndex(i)
	if err != nil {
		return nil, err
	}
	return d.window.ReadAt(d.unitSize, idx*d.unitSize)
}

// Slice reads the half-open range [begin, end) of units as one contiguous
// byte read of (end-begin)*unitSize bytes. Negative bounds are resolved the
// same way as At.
func (d *DataUnits) Slice(begin, end int64) ([]byte, error) {
	b, err := d.resolveIndex(begin)
	if err != nil {
		return nil, err
	}
	e, err := d.resolveBound(end)
	if err != nil {
		return nil, err
	}
	if e < b {
		return nil, &RangeViolation{Op: "slice", Begin: d.window.begin, End: d.window.end, Offset: b, Size: 0}
	}
	return d.window.ReadAt((e-b)*d.unitSize, b*d.unitSize)
}

func (d *DataUnits) resolveIndex(i int64) (uint64, error) {
	idx := i
	if idx < 0 {
		idx += int64(d.count)
	}
	if idx < 0 || uint64(idx) >= d.count {
		return 0, &RangeViolation{Op: "at", Begin: d.window.begin, End: d.window.end, Offset: uint64(i)}
	}
	return uint64(idx), nil
}

// resolveBound resolves a slice endpoint, which unlike At is allowed to
// equal count (a half-open upper bound).
func (d *DataUnits) resolveBound(i int64) (uint64, error) {
	idx := i
	if idx < 0 {
		idx += int64(d.count)
	}
	if idx < 0 || uint64(idx) > d.count {
		return 0, &RangeViolation{Op: "slice", Begin: d.window.begin, End: d.window.end, Offset: uint64(i)}
	}
	return uint64(idx), nil
}
