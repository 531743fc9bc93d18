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
	"bytes"
	"fmt"
	"os"

	utilio "github.com/scafiti/gofff/pkg/util/io"
	"github.com/spf13/cobra"
)

func DefineCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cat <image> <path>",
		Short:        "Print a file's data (or, with --slack, its slack space) to stdout or to -o",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunCat,
	}
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	cmd.Flags().Bool("slack", false, "print slack space instead of file data")
	return cmd
}

func RunCat(cmd *cobra.Command, args []string) error {
	img, vol, err := openFirstNTFS(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	target, err := resolvePath(vol, args[1])
	if err != nil {
		return err
	}
	if target.IsDir() {
		return fmt.Errorf("gofff: %s is a directory", args[1])
	}

	slack, _ := cmd.Flags().GetBool("slack")
	var data []byte
	if slack {
		data, err = target.SlackSpace()
	} else {
		data, err = target.Data()
	}
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return utilio.CopyFile(output, bytes.NewReader(data))
}
