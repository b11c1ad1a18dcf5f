/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/safeio"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

func newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Change the image, text or paragraph of one card",
		Long: `Edit sets one field of the leaf at a path such as "hr > leave > approved" and
writes the usage map back, keeping key order, unknown fields and the file
mode.

Examples:
   svgaudit edit "hr > leave > approved" --field img --value bg12.svg
   svgaudit edit "profile > avatar" --field text --value "Upload a photo" --dry-run`,
		Args:        cobra.ExactArgs(1),
		Annotations: ops.Annotate(ops.GroupAudit),
		RunE:        runEdit,
	}
	cmd.Flags().String("field", "", "Field to set (img|text|para)")
	cmd.Flags().String("value", "", "New value")
	cmd.Flags().Bool("dry-run", false, "Print the updated usage map instead of saving it")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	rawField, _ := cmd.Flags().GetString("field")
	field, err := usagetree.ParseField(rawField)
	if err != nil {
		return exitcode.Wrap(exitcode.UsageError, err)
	}
	value, _ := cmd.Flags().GetString("value")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noOp, _ := cmd.Flags().GetBool("no-op")

	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.openTree(cmd.Context())
	if err != nil {
		return err
	}

	path := usagetree.ParsePath(args[0])
	if err := s.SetField(path, field, value); err != nil {
		return exitcode.Wrap(exitcode.ValidationError, err)
	}

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return exitcode.Wrap(exitcode.DataError, err)
	}
	if dryRun || noOp {
		logger.Info(fmt.Sprintf("[NO-OP] %s not written", w.data))
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := safeio.WriteFilePreservePerms(w.fs, w.data, buf.Bytes()); err != nil {
		return exitcode.Wrap(exitcode.FileSystemError, err)
	}
	logger.Debug("Usage map saved", logger.String("path", w.data))
	return writeOut(cmd, fmt.Sprintf("Set %s of %s in %s\n", field, path, filepath.Base(w.data)))
}
