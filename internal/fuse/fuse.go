//go:build linux
// +build linux

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

// Package fuse mounts an ntfs.NTFS volume read-only, backing bazil.org/fuse's
// node tree directly with ntfs.File instead of a flat carved-file map.
package fuse

import (
	"context"
	"os"
	"sort"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/scafiti/gofff/internal/ntfs"
)

// NTFSFS is the root of the mounted filesystem.
type NTFSFS struct {
	vol *ntfs.NTFS
}

// New builds a FUSE filesystem rooted at vol's root directory.
func New(vol *ntfs.NTFS) *NTFSFS {
	return &NTFSFS{vol: vol}
}

func (n *NTFSFS) Root() (fs.Node, error) {
	root, err := n.vol.Root()
	if err != nil {
		return nil, err
	}
	return &Dir{vol: n.vol, file: root}, nil
}

// Dir implements fs.Node, fs.HandleReadDirAller and fs.NodeStringLookuper
// over a directory ntfs.File.
type Dir struct {
	vol  *ntfs.NTFS
	file *ntfs.File
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	a.Inode = d.file.Inode()
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	children, err := d.file.List(ntfs.ListOptions{})
	if err != nil {
		return nil, fuse.EIO
	}
	for _, c := range children {
		if c.Name() != name {
			continue
		}
		if c.IsDir() {
			return &Dir{vol: d.vol, file: c}, nil
		}
		return &File{file: c}, nil
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	children, err := d.file.List(ntfs.ListOptions{})
	if err != nil {
		return nil, fuse.EIO
	}

	dirEntries := make([]fuse.Dirent, 0, len(children))
	for _, c := range children {
		typ := fuse.DT_File
		if c.IsDir() {
			typ = fuse.DT_Dir
		}
		dirEntries = append(dirEntries, fuse.Dirent{
			Inode: c.Inode(),
			Name:  c.Name(),
			Type:  typ,
		})
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name < dirEntries[j].Name })
	return dirEntries, nil
}

// File implements fs.Node and fs.HandleReader over a regular ntfs.File,
// reading through its $DATA run-stitching rather than a flat byte range.
type File struct {
	file *ntfs.File
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.file.Size()
	a.Inode = f.file.Inode()
	a.Mtime = time.Now()
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := uint64(req.Size)
	offset := uint64(req.Offset)

	fileSize := f.file.Size()
	if offset >= fileSize {
		resp.Data = []byte{}
		return nil
	}
	if offset+size > fileSize {
		size = fileSize - offset
	}

	buf, err := f.file.Read(size, offset, 1)
	if err != nil {
		return fuse.EIO
	}
	resp.Data = buf
	return nil
}
