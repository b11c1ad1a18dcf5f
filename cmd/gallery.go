/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

func newGalleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List assets through the usage, size and category filters",
		Long: `Gallery lists the assets in listing order with their size class and the
breadcrumbs of every enabled category that uses them. An asset is shown
when it passes all three filters; within a filter any enabled choice is
enough. Categories only apply to assets that are used.

Examples:
   svgaudit gallery --usage unused
   svgaudit gallery --correct=false --category hr,profile`,
		Args:        cobra.NoArgs,
		Annotations: ops.Annotate(ops.GroupAudit),
		RunE:        runGallery,
	}
	cmd.Flags().String("usage", "all", "Usage filter (all|used|unused)")
	cmd.Flags().Bool("correct", true, "Show assets with the expected size")
	cmd.Flags().Bool("incorrect", true, "Show assets with another size or not measured")
	cmd.Flags().StringSlice("category", nil, "Enabled categories (default from config)")
	cmd.Flags().Bool("measure", true, "Measure asset dimensions")
	cmd.Flags().Int("workers", 0, "Concurrent measurements (default from config, 8)")
	cmd.Flags().String("format", "text", formatUsage(report.Formats...))
	return cmd
}

func runGallery(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd, report.Formats...)
	if err != nil {
		return err
	}
	rawUsage, _ := cmd.Flags().GetString("usage")
	usage, err := reconcile.ParseUsageFilter(rawUsage)
	if err != nil {
		return exitcode.Wrap(exitcode.UsageError, err)
	}

	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}

	filter := w.cfg.Filter()
	if cmd.Flags().Changed("category") {
		categories, _ := cmd.Flags().GetStringSlice("category")
		filter = reconcile.NewFilter(categories...)
	}
	filter.Usage = usage
	filter.Correct, _ = cmd.Flags().GetBool("correct")
	filter.Incorrect, _ = cmd.Flags().GetBool("incorrect")

	s, err := w.open(cmd.Context())
	if err != nil {
		return err
	}
	if measure, _ := cmd.Flags().GetBool("measure"); measure {
		if err := s.Measure(cmd.Context(), w.fs, w.images, w.cfg.Measure.Workers); err != nil {
			return err
		}
	}

	out, err := report.NewFormatter(format, colorOutput(cmd)).FormatGallery(s.Gallery(filter))
	if err != nil {
		return err
	}
	return writeOut(cmd, out)
}
