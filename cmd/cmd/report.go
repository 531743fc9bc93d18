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
	"os"

	"github.com/scafiti/gofff/internal/env"
	"github.com/scafiti/gofff/internal/ntfs"
	"github.com/scafiti/gofff/pkg/dfxml"
	"github.com/scafiti/gofff/pkg/pbar"
	"github.com/spf13/cobra"
)

func DefineReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "report <image>",
		Short:        "Walk the first NTFS volume's MFT tree and emit a DFXML report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunReport,
	}
	cmd.Flags().StringP("output", "o", "", "write the report here instead of stdout")
	cmd.Flags().Bool("progress", false, "render a progress bar to stderr while walking")
	return cmd
}

func RunReport(cmd *cobra.Command, args []string) error {
	img, vol, err := openFirstNTFS(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	out := os.Stdout
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := dfxml.NewDFXMLWriter(out)
	if err := w.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              "gofff",
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: args[0],
			SectorSize:    int(vol.BootSector().BytesPerSector),
			ImageSize:     img.Size(),
		},
	}); err != nil {
		return err
	}

	root, err := vol.Root()
	if err != nil {
		return err
	}

	Log.Infof("walking %s (volume %q)", args[0], vol.VolumeName())

	showProgress, _ := cmd.Flags().GetBool("progress")
	var bar *pbar.ProgressBarState
	if showProgress {
		bar = pbar.NewProgressBarState(int64(img.Size()))
	}

	if err := walkReport(vol, root, w, bar); err != nil {
		return err
	}
	if bar != nil {
		bar.Render(true)
	}
	Log.Infof("report complete: %d bytes of image examined", img.Size())
	return w.Close()
}

func walkReport(vol *ntfs.NTFS, dir *ntfs.File, w *dfxml.DFXMLWriter, bar *pbar.ProgressBarState) error {
	children, err := dir.List(ntfs.ListOptions{})
	if err != nil {
		return err
	}

	clusterSize := vol.ClusterSize()
	for _, c := range children {
		obj := fileObjectFor(c, clusterSize)
		if err := w.WriteFileObject(obj); err != nil {
			return err
		}
		if bar != nil {
			bar.ProcessedBytes += int64(c.Size())
			bar.FilesFound++
			bar.Render(false)
		}
		if c.IsDir() {
			if err := walkReport(vol, c, w, bar); err != nil {
				return err
			}
		}
	}
	return nil
}

func fileObjectFor(f *ntfs.File, clusterSize uint64) dfxml.FileObject {
	fullPath, err := f.FullPath()
	if err != nil {
		fullPath = f.Name()
	}

	var runs []dfxml.ByteRun
	var logical uint64
	for _, dr := range f.DataRuns() {
		length := dr.Length * clusterSize
		run := dfxml.ByteRun{Offset: logical, Length: length}
		if dr.Offset != nil {
			run.ImgOffset = uint64(*dr.Offset) * clusterSize
		}
		runs = append(runs, run)
		logical += length
	}

	return dfxml.FileObject{
		Filename: fullPath,
		FileSize: f.Size(),
		ByteRuns: dfxml.ByteRuns{Runs: runs},
	}
}
