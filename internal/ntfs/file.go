package ntfs

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
)

// File is the user-visible node: a façade over an MFTEntry plus the NTFS
// volume it belongs to.
type File struct {
	ntfs  *NTFS
	entry *MFTEntry
}

func newFile(n *NTFS, e *MFTEntry) *File {
	return &File{ntfs: n, entry: e}
}

// Inode returns the MFT record number backing this file.
func (f *File) Inode() uint64 { return f.entry.Inode }

// IsFile reports that the entry is a plain in-use file (flags == 0x01).
func (f *File) IsFile() bool { return f.entry.IsFile() }

// IsDir reports the directory bit of the entry's flags.
func (f *File) IsDir() bool { return f.entry.IsDir() }

// IsAllocated reports the in-use bit of the entry's flags.
func (f *File) IsAllocated() bool { return f.entry.InUse() }

// fileNames returns every $FILE_NAME attribute carried by the entry.
func (f *File) fileNames() []*FileNameAttr {
	var out []*FileNameAttr
	for _, a := range f.entry.Attrs {
		if a.FileName != nil {
			out = append(out, a.FileName)
		}
	}
	return out
}

// Name applies §4.9's selection policy: first Win32 (namespace&1!=0), else
// first DOS-only, else first available, else "".
func (f *File) Name() string {
	names := f.fileNames()
	if len(names) == 0 {
		return ""
	}
	for _, fn := range names {
		if fn.Namespace&1 != 0 {
			return fn.FileName
		}
	}
	for _, fn := range names {
		if fn.Namespace == NamespaceDOS {
			return fn.FileName
		}
	}
	return names[0].FileName
}

// unnamedDataAttrs returns the entry's unnamed ($DATA, name=="") streams.
func (f *File) unnamedDataAttrs() []*DataAttr {
	var out []*DataAttr
	for _, a := range f.entry.Attrs {
		if a.Data != nil && a.Data.Name == "" {
			out = append(out, a.Data)
		}
	}
	return out
}

// Size is the sum of actual_size over unnamed $DATA attributes.
func (f *File) Size() uint64 {
	var total uint64
	for _, d := range f.unnamedDataAttrs() {
		total += d.Size()
	}
	return total
}

// AllocatedSize is the sum of allocated_size over unnamed $DATA
// attributes.
func (f *File) AllocatedSize() uint64 {
	var total uint64
	for _, d := range f.unnamedDataAttrs() {
		total += d.AllocatedSize()
	}
	return total
}

// MimeType derives a MIME type from the file's name extension (recovered
// from original_source/, SPEC_FULL.md §5).
func (f *File) MimeType() string { return mimeTypeForName(f.Name()) }

// parentInode returns the inode from the first $FILE_NAME's parent
// FileRef, or this file's own inode if it carries no $FILE_NAME (root).
func (f *File) parentInode() uint64 {
	names := f.fileNames()
	if len(names) == 0 {
		return f.entry.Inode
	}
	return names[0].ParentRef.Inode
}

// Parent returns the parent directory, or nil at the root (inode 5, whose
// parent is itself).
func (f *File) Parent() (*File, error) {
	parentInode := f.parentInode()
	if parentInode == f.entry.Inode {
		return nil, nil
	}
	return f.ntfs.Find(parentInode)
}

// FullPath walks Parent links to the root, joining with '/'; the root's
// path is exactly "/".
func (f *File) FullPath() (string, error) {
	if f.entry.Inode == rootInode {
		return "/", nil
	}
	var parts []string
	cur := f
	for {
		parts = append([]string{cur.Name()}, parts...)
		parent, err := cur.Parent()
		if err != nil {
			return "", err
		}
		if parent == nil {
			break
		}
		cur = parent
	}
	return "/" + path.Join(parts...), nil
}

// DataRuns returns every DataRun of every unnamed, non-resident $DATA
// attribute, in stream order, for callers building a byte-run report
// (e.g. a DFXML <byte_runs> block).
func (f *File) DataRuns() []DataRun {
	var all []DataRun
	for _, d := range f.unnamedDataAttrs() {
		if d.Resident {
			continue
		}
		all = append(all, d.Header.VCN.Runs...)
	}
	return all
}

// Contains reports whether any non-sparse DataRun of any unnamed $DATA
// attribute covers the given physical cluster.
func (f *File) Contains(cluster uint64) bool {
	for _, d := range f.unnamedDataAttrs() {
		if d.Resident {
			continue
		}
		for _, dr := range d.Header.VCN.Runs {
			if dr.Offset == nil {
				continue
			}
			start := uint64(*dr.Offset)
			if cluster >= start && cluster < start+dr.Length {
				return true
			}
		}
	}
	return false
}

// Read produces count*bsize bytes starting skip*bsize bytes into the
// file's unnamed $DATA stream(s), per §4.9's stitching algorithm.
func (f *File) Read(count, skip, bsize uint64) ([]byte, error) {
	if bsize == 0 {
		bsize = 1
	}
	offset := skip * bsize
	size := count * bsize

	dataAttrs := f.unnamedDataAttrs()
	if len(dataAttrs) == 0 {
		return nil, nil
	}
	for _, d := range dataAttrs {
		if d.Compressed() || d.Encrypted() {
			// Per §7: on-disk bytes are still returned unchanged; this is
			// informational, not a decode failure.
			slog.Warn("reading compressed/encrypted $DATA as raw bytes",
				"inode", f.entry.Inode, "compressed", d.Compressed(), "encrypted", d.Encrypted())
			break
		}
	}

	// A resident stream is never split across multiple $DATA attributes.
	if dataAttrs[0].Resident {
		inline := dataAttrs[0].Inline
		if offset >= uint64(len(inline)) {
			return nil, nil
		}
		end := offset + size
		if end > uint64(len(inline)) {
			end = uint64(len(inline))
		}
		return append([]byte(nil), inline[offset:end]...), nil
	}

	out := make([]byte, 0, size)
	remainingSkip := offset
	remainingRead := size
	cr := f.ntfs.ClusterReader()
	clusterSize := f.ntfs.boot.ClusterSize

	for _, d := range dataAttrs {
		if remainingRead == 0 {
			break
		}
		streamBytes := d.Header.VCN.ClusterCount() * clusterSize
		if remainingSkip >= streamBytes {
			remainingSkip -= streamBytes
			continue
		}
		toRead := remainingRead
		if remainingSkip+toRead > streamBytes {
			toRead = streamBytes - remainingSkip
		}
		chunk, err := readRuns(cr, d.Header.VCN, clusterSize, remainingSkip, toRead)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		remainingRead -= toRead
		remainingSkip = 0
	}
	return out, nil
}

// Data is a convenience equal to Read(count=Size(), skip=0, bsize=1).
func (f *File) Data() ([]byte, error) {
	return f.Read(f.Size(), 0, 1)
}

// SlackSpace returns the bytes between the file's logical size and its
// allocated size on disk.
func (f *File) SlackSpace() ([]byte, error) {
	size := f.Size()
	alloc := f.AllocatedSize()
	if alloc <= size {
		return nil, nil
	}
	return f.Read(alloc-size, size, 1)
}

// ListOptions configures File.List.
type ListOptions struct {
	Recursive bool
	Pattern   string // glob, mutually exclusive with Regex
	Regex     string
}

// List walks the directory's $INDEX_ROOT/$INDEX_ALLOCATION B+-tree,
// yielding one File per non-sentinel entry. Yields nothing for a
// non-directory entry.
func (f *File) List(opts ListOptions) ([]*File, error) {
	if !f.IsDir() {
		return nil, nil
	}

	var matcher *regexp.Regexp
	if opts.Regex != "" {
		re, err := regexp.Compile(opts.Regex)
		if err != nil {
			return nil, fmt.Errorf("ntfs: invalid regex: %w", err)
		}
		matcher = re
	} else if opts.Pattern != "" {
		re, err := globToRegexp(opts.Pattern)
		if err != nil {
			return nil, err
		}
		matcher = re
	}

	var indexRoot *IndexRootAttr
	var indexAlloc *IndexAllocationAttr
	for _, a := range f.entry.Attrs {
		if a.IndexRoot != nil && a.Header.Name == "$I30" {
			indexRoot = a.IndexRoot
		}
		if a.IndexAllocation != nil && a.Header.Name == "$I30" {
			indexAlloc = a.IndexAllocation
		}
	}
	if indexRoot == nil {
		return nil, nil
	}

	seenInodes := make(map[uint64]bool)
	var results []*File

	emit := func(e IndexEntry) error {
		if e.IsLast() || e.FileName == nil {
			return nil
		}
		if e.FileRef.Inode == f.entry.Inode {
			return nil
		}
		if seenInodes[e.FileRef.Inode] {
			return nil
		}
		seenInodes[e.FileRef.Inode] = true

		child, err := f.ntfs.Find(e.FileRef.Inode)
		if err != nil {
			return nil
		}
		if matcher != nil && !matcher.MatchString(child.Name()) {
			return nil
		}
		results = append(results, child)

		if opts.Recursive && child.IsDir() && child.entry.Inode != f.entry.Inode {
			sub, err := child.List(opts)
			if err == nil {
				results = append(results, sub...)
			}
		}
		return nil
	}

	for _, e := range indexRoot.Entries {
		if err := emit(e); err != nil {
			return nil, err
		}
	}

	if indexAlloc != nil {
		bs := f.ntfs.boot
		cr := f.ntfs.ClusterReader()
		workList := indexRoot.ChildVCNs()
		visited := make(map[uint64]bool)
		for len(workList) > 0 {
			vcn := workList[0]
			workList = workList[1:]
			if visited[vcn] {
				continue
			}
			visited[vcn] = true

			rec, err := indexAlloc.ReadRecord(cr, bs.ClusterSize, bs.IndexRecordSize(), uint64(bs.BytesPerSector), vcn, indexRoot.IndexedAttrType)
			if err != nil {
				continue
			}
			for _, e := range rec.Entries {
				if err := emit(e); err != nil {
					return nil, err
				}
			}
			workList = append(workList, rec.ChildVCNs()...)
		}
	}

	return results, nil
}

// globToRegexp translates a shell glob into an anchored regexp, per §4.9.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.', '(', ')', '+', '|', '^', '$', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}

// String renders a one-line human summary, matching the teacher's
// MBR/MBRPartitionEntry.String() convention.
func (f *File) String() string {
	kind := "file"
	if f.IsDir() {
		kind = "dir"
	}
	return fmt.Sprintf("inode=%d %s %q size=%d allocated=%d", f.entry.Inode, kind, f.Name(), f.Size(), f.AllocatedSize())
}
