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
	"github.com/scafiti/gofff/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefinePartitionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "partitions <image>",
		Short:        "List the partition table and unallocated gaps of a disk image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunPartitions,
	}
}

func RunPartitions(cmd *cobra.Command, args []string) error {
	img, err := diskimage.Open(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	printMBR(img, img.Volume)
	return nil
}

func printMBR(img *diskimage.DiskImage, mbr *disk.MBR) {
	fmt.Println(mbr)
	for _, p := range mbr.Partitions {
		kind, _ := img.DetectFilesystem(p)
		fmt.Printf("  [%2d] %-8s start=%-10d size=%-10s type=%s bootable=%v\n",
			p.Index, kind, p.FirstSector(), format.FormatBytes(int64(p.SizeBytes())), p.PartitionType, p.Bootable())
	}
	for _, u := range mbr.Unallocated {
		fmt.Printf("  [%2d] %-8s start=%-10d size=%s\n", u.Index, "-", u.FirstSector, format.FormatBytes(int64(u.SizeBytes())))
	}
	for _, p := range mbr.Partitions {
		if p.EBR != nil {
			printMBR(img, p.EBR)
		}
	}
}
