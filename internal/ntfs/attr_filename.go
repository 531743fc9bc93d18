package ntfs

import (
	"encoding/binary"
	"fmt"
)

// Namespace is the $FILE_NAME namespace a filename was recorded under.
type Namespace uint8

const (
	NamespacePOSIX    Namespace = 0
	NamespaceWin32    Namespace = 1
	NamespaceDOS      Namespace = 2
	NamespaceWin32DOS Namespace = 3
)

// FileNameAttr decodes $FILE_NAME (0x30).
type FileNameAttr struct {
	ParentRef     FileRef
	Created       Ticks
	Modified      Ticks
	MFTModified   Ticks
	Accessed      Ticks
	AllocatedSize uint64
	ActualSize    uint64
	Flags         uint32
	ReparseTag    uint32
	Namespace     Namespace
	FileName      string
}

const fileNameHeaderSize = 0x42

func decodeFileName(b []byte) (*FileNameAttr, error) {
	if len(b) < fileNameHeaderSize {
		return nil, errMalformed("$FILE_NAME", fmt.Errorf("payload too short: %d bytes", len(b)))
	}

	nameLen := int(b[0x40])
	nameEnd := fileNameHeaderSize + nameLen*2
	if nameEnd > len(b) {
		return nil, errMalformed("$FILE_NAME", fmt.Errorf("name_length %d exceeds payload", nameLen))
	}

	return &FileNameAttr{
		ParentRef:     ParseFileRef(b[0x00:0x08]),
		Created:       Ticks(binary.LittleEndian.Uint64(b[0x08:0x10])),
		Modified:      Ticks(binary.LittleEndian.Uint64(b[0x10:0x18])),
		MFTModified:   Ticks(binary.LittleEndian.Uint64(b[0x18:0x20])),
		Accessed:      Ticks(binary.LittleEndian.Uint64(b[0x20:0x28])),
		AllocatedSize: binary.LittleEndian.Uint64(b[0x28:0x30]),
		ActualSize:    binary.LittleEndian.Uint64(b[0x30:0x38]),
		Flags:         binary.LittleEndian.Uint32(b[0x38:0x3C]),
		ReparseTag:    binary.LittleEndian.Uint32(b[0x3C:0x40]),
		Namespace:     Namespace(b[0x41]),
		FileName:      decodeUTF16LE(b[fileNameHeaderSize:nameEnd]),
	}, nil
}

// IsDirectory reports the DIRECTORY bit of Flags.
func (f *FileNameAttr) IsDirectory() bool { return f.Flags&0x10000000 != 0 }
