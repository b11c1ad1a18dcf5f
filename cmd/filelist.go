/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/safeio"
)

func newFilelistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filelist",
		Short: "Regenerate the asset file list from the image folder",
		Long: `Filelist scans the image folder with the configured include patterns and
writes {generated, count, files}: numbered assets first, then the other
names, then the trailing files.`,
		Args:        cobra.NoArgs,
		Annotations: ops.Annotate(ops.GroupAudit),
		RunE:        runFilelist,
	}
	cmd.Flags().StringP("output", "o", "", "Write to this path instead of the configured file list")
	cmd.Flags().Bool("stdout", false, "Print the file list instead of writing it")
	return cmd
}

func runFilelist(cmd *cobra.Command, _ []string) error {
	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}

	names, err := catalog.Discover(w.fs, w.images, w.discoverOptions())
	if err != nil {
		return exitcode.Wrap(exitcode.FileSystemError, err)
	}
	fl := catalog.NewFileList(names, time.Now())

	toStdout, _ := cmd.Flags().GetBool("stdout")
	noOp, _ := cmd.Flags().GetBool("no-op")
	if toStdout || noOp {
		return fl.Encode(cmd.OutOrStdout())
	}

	dest := w.fileList
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		clean, err := safeio.CleanUserPath(out)
		if err != nil {
			return exitcode.Errorf(exitcode.UsageError, "invalid --output %q: %v", out, err)
		}
		if dest, err = filepath.Abs(clean); err != nil {
			return exitcode.Wrap(exitcode.FileSystemError, err)
		}
	}
	if err := catalog.WriteFileList(w.fs, dest, fl); err != nil {
		return exitcode.Wrap(exitcode.FileSystemError, err)
	}
	return writeOut(cmd, fmt.Sprintf("Wrote %d file(s) to %s\n", fl.Count, dest))
}
