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

	"github.com/scafiti/gofff/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "inspect <image> <path>",
		Short:        "Print MFT-level metadata for one file or directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunInspect,
	}
}

func RunInspect(cmd *cobra.Command, args []string) error {
	img, vol, err := openFirstNTFS(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	target, err := resolvePath(vol, args[1])
	if err != nil {
		return err
	}

	fullPath, err := target.FullPath()
	if err != nil {
		fullPath = "?"
	}

	fmt.Printf("path:            %s\n", fullPath)
	fmt.Printf("inode:           %d\n", target.Inode())
	fmt.Printf("is_dir:          %v\n", target.IsDir())
	fmt.Printf("is_file:         %v\n", target.IsFile())
	fmt.Printf("is_allocated:    %v\n", target.IsAllocated())
	fmt.Printf("size:            %s\n", format.FormatBytes(int64(target.Size())))
	fmt.Printf("allocated_size:  %s\n", format.FormatBytes(int64(target.AllocatedSize())))
	fmt.Printf("mime:            %s\n", target.MimeType())
	return nil
}
