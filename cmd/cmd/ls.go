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

	"github.com/scafiti/gofff/internal/ntfs"
	"github.com/scafiti/gofff/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ls <image> [path]",
		Short:        "List a directory's contents on the image's first NTFS partition",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         RunLs,
	}
	cmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	cmd.Flags().StringP("pattern", "p", "", "glob pattern to filter by name")
	cmd.Flags().Bool("long", false, "show size and allocated size")
	return cmd
}

func RunLs(cmd *cobra.Command, args []string) error {
	img, vol, err := openFirstNTFS(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	target, err := vol.Root()
	if err != nil {
		return err
	}
	if len(args) == 2 && args[1] != "/" && args[1] != "" {
		target, err = resolvePath(vol, args[1])
		if err != nil {
			return err
		}
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	pattern, _ := cmd.Flags().GetString("pattern")
	long, _ := cmd.Flags().GetBool("long")

	children, err := target.List(ntfs.ListOptions{Recursive: recursive, Pattern: pattern})
	if err != nil {
		return err
	}
	for _, c := range children {
		if !long {
			fmt.Println(c.Name())
			continue
		}
		kind := "f"
		if c.IsDir() {
			kind = "d"
		}
		fmt.Printf("%s %10s %10s %s\n", kind, format.FormatBytes(int64(c.Size())), format.FormatBytes(int64(c.AllocatedSize())), c.Name())
	}
	return nil
}

// resolvePath walks a '/'-separated path from the volume root, one
// directory listing per segment.
func resolvePath(vol *ntfs.NTFS, p string) (*ntfs.File, error) {
	cur, err := vol.Root()
	if err != nil {
		return nil, err
	}
	segments := splitPath(p)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		children, err := cur.List(ntfs.ListOptions{})
		if err != nil {
			return nil, err
		}
		found := false
		for _, c := range children {
			if c.Name() == seg {
				cur = c
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("gofff: %q not found", p)
		}
	}
	return cur, nil
}

func splitPath(p string) []string {
	var out []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			if i > start {
				out = append(out, p[start:i])
			}
			start = i + 1
		}
	}
	if start < len(p) {
		out = append(out, p[start:])
	}
	return out
}
