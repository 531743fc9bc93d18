//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/scafiti/gofff/internal/ntfs"
)

// Mount is only implemented on Linux (bazil.org/fuse has no other
// supported backend in this module).
func Mount(mountpoint string, vol *ntfs.NTFS) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
