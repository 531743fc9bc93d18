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
package cmd

import (
	"fmt"

	"github.com/scafiti/gofff/internal/disk"
	"github.com/scafiti/gofff/internal/diskimage"
	"github.com/scafiti/gofff/internal/fsdispatch"
	"github.com/scafiti/gofff/internal/ntfs"
)

// openFirstNTFS opens the image at path and returns the first NTFS volume
// found across its top-level MBR and any recursively discovered EBRs.
// Callers must Close the returned DiskImage.
func openFirstNTFS(path string) (*diskimage.DiskImage, *ntfs.NTFS, error) {
	img, err := diskimage.Open(path)
	if err != nil {
		return nil, nil, err
	}

	vol, err := findNTFS(img, img.Volume)
	if err != nil {
		img.Close()
		return nil, nil, err
	}
	if vol == nil {
		img.Close()
		return nil, nil, fmt.Errorf("gofff: no NTFS partition found in %s", path)
	}
	return img, vol, nil
}

// findNTFS walks mbr's partitions depth-first (descending into EBRs),
// opening the first one that trial-parses as NTFS.
func findNTFS(img *diskimage.DiskImage, mbr *disk.MBR) (*ntfs.NTFS, error) {
	for _, p := range mbr.Partitions {
		if p.EBR != nil {
			if vol, err := findNTFS(img, p.EBR); err != nil {
				return nil, err
			} else if vol != nil {
				return vol, nil
			}
			continue
		}

		kind, err := img.DetectFilesystem(p)
		if err != nil {
			continue
		}
		if kind != fsdispatch.NTFS {
			continue
		}
		vol, err := img.OpenNTFS(p)
		if err != nil {
			return nil, fmt.Errorf("gofff: open NTFS on partition %d: %w", p.Index, err)
		}
		return vol, nil
	}
	return nil, nil
}
