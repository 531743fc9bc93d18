// Package diskimage owns the byte source backing a forensic inspection
// session: opening it, building the top-level MBR, and invalidating
// every derived window on Close (spec §2 component 12, §5 lifecycle).
package diskimage

import (
	"fmt"

	"github.com/scafiti/gofff/internal/bytewindow"
	"github.com/scafiti/gofff/internal/disk"
	"github.com/scafiti/gofff/internal/fs"
	"github.com/scafiti/gofff/internal/fsdispatch"
	"github.com/scafiti/gofff/internal/ntfs"
)

// DiskImage owns a single seekable byte source (a file, or an opened raw
// volume handle on Windows) and the top-level MBR parsed from it.
type DiskImage struct {
	file   fs.File
	size   uint64
	window *bytewindow.ByteWindow
	Volume *disk.MBR

	dispatch *fsdispatch.Registry
}

// Open opens path (a regular file or, on Windows, a raw device path; a bare
// drive letter such as "C:" is normalized to \\.\C: first) via internal/fs
// and parses its top-level MBR.
func Open(path string) (*DiskImage, error) {
	f, err := fs.Open(disk.NormalizeVolumePath(path))
	if err != nil {
		return nil, fmt.Errorf("diskimage: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("diskimage: stat %s: %w", path, err)
	}
	size := uint64(info.Size())
	if size < 512 {
		f.Close()
		return nil, fmt.Errorf("diskimage: %s is %d bytes, too short for an MBR", path, size)
	}

	window := bytewindow.New(f, 0, size)

	counter := 0
	volume, err := disk.ParseMBR(window, 0, 0, nil, &counter)
	if err != nil {
		f.Close()
		return nil, err
	}
	disk.AssignIndices(volume)

	return &DiskImage{
		file:     f,
		size:     size,
		window:   window,
		Volume:   volume,
		dispatch: fsdispatch.New(),
	}, nil
}

// Close releases the underlying byte source. Every ByteWindow and NTFS
// instance derived from this DiskImage becomes invalid.
func (d *DiskImage) Close() error { return d.file.Close() }

// Size is the byte source's total length.
func (d *DiskImage) Size() uint64 { return d.size }

// Window returns the whole-disk ByteWindow backing this image.
func (d *DiskImage) Window() *bytewindow.ByteWindow { return d.window }

// DetectFilesystem trial-parses a partition's first sector against the
// registered recognisers (spec §4.11).
func (d *DiskImage) DetectFilesystem(p *disk.Partition) (fsdispatch.Kind, error) {
	sector, err := d.window.ReadAt(512, p.FirstSector()*512)
	if err != nil {
		return fsdispatch.Unknown, fmt.Errorf("diskimage: read partition %d first sector: %w", p.Index, err)
	}
	return d.dispatch.Detect(sector), nil
}

// OpenNTFS builds an NTFS facade over a partition's extent, after
// confirming it carries an NTFS signature.
func (d *DiskImage) OpenNTFS(p *disk.Partition) (*ntfs.NTFS, error) {
	begin := p.FirstSector() * 512
	end := begin + p.SizeBytes()
	if end > d.size {
		end = d.size
	}
	sub, err := d.window.Sub(begin, end-begin)
	if err != nil {
		return nil, fmt.Errorf("diskimage: window partition %d: %w", p.Index, err)
	}
	return ntfs.Open(sub)
}
