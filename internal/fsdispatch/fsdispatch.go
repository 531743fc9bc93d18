// Package fsdispatch is the small ordered registry of filesystem
// recognisers tried against the first sector of a partition (spec §4.11).
// The NTFS signature lookup is keyed through the teacher's
// pkg/table.PrefixTable, repurposed from media-format signature lookup to
// filesystem-signature lookup.
package fsdispatch

import (
	"github.com/scafiti/gofff/pkg/table"
)

// Kind identifies the filesystem recognised at a partition's first sector.
type Kind int

const (
	Unknown Kind = iota
	NTFS
	FAT
)

func (k Kind) String() string {
	switch k {
	case NTFS:
		return "NTFS"
	case FAT:
		return "FAT"
	default:
		return "unknown"
	}
}

const ntfsSignatureOffset = 3

var ntfsSignature = []byte("NTFS    ")

// Registry holds the ordered set of recognisers. NTFS is looked up via a
// PrefixTable keyed on the 8-byte OEM ID at offset 3; FAT is a fallback
// recogniser examining the trailing 0x55AA marker, since its signature
// isn't a fixed-offset prefix in the same sense.
type Registry struct {
	bySignature *table.PrefixTable[Kind]
}

// New builds the default registry: NTFS by OEM ID, FAT as a trailing-
// marker fallback.
func New() *Registry {
	r := &Registry{bySignature: table.New[Kind]()}
	r.bySignature.Insert(ntfsSignature, NTFS)
	return r
}

// Detect tries every registered recogniser against a partition's first
// sector (at least 512 bytes) and returns the first match, or Unknown.
func (r *Registry) Detect(sector []byte) Kind {
	if len(sector) < 512 {
		return Unknown
	}

	if len(sector) >= ntfsSignatureOffset+len(ntfsSignature) {
		key := sector[ntfsSignatureOffset : ntfsSignatureOffset+len(ntfsSignature)]
		found := Unknown
		r.bySignature.Walk(key, func(k Kind) bool {
			found = k
			return true
		})
		if found != Unknown {
			return found
		}
	}

	if looksLikeFAT(sector) {
		return FAT
	}
	return Unknown
}

// looksLikeFAT reports the trailing 0x55AA marker plus a plausible
// bytes-per-sector field, per spec §4.11 ("a plausible cluster count can
// be derived; not further specified here").
func looksLikeFAT(sector []byte) bool {
	if sector[0x1FE] != 0x55 || sector[0x1FF] != 0xAA {
		return false
	}
	bytesPerSector := uint16(sector[0x0B]) | uint16(sector[0x0C])<<8
	sectorsPerCluster := sector[0x0D]
	return bytesPerSector > 0 && bytesPerSector%512 == 0 && sectorsPerCluster > 0
}
