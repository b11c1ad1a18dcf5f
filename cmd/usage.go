/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

func newUsageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage <file>",
		Short: "Show every place an asset is used",
		Long: `Usage lists the breadcrumbs of every leaf that references the file. An svg
name also finds a png reference of the same base name, and the reverse.`,
		Args:        cobra.ExactArgs(1),
		Annotations: ops.Annotate(ops.GroupBrowse),
		RunE:        runUsage,
	}
	cmd.Flags().StringSlice("category", nil, "Only show breadcrumbs in these top-level categories")
	cmd.Flags().String("format", "text", formatUsage(report.Formats...))
	return cmd
}

func runUsage(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, report.Formats...)
	if err != nil {
		return err
	}
	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.openTree(cmd.Context())
	if err != nil {
		return err
	}

	paths := s.Usage(args[0])
	if categories, _ := cmd.Flags().GetStringSlice("category"); len(categories) > 0 {
		paths = reconcile.NewFilter(categories...).Breadcrumbs(paths)
	}
	rec := report.NewUsageRecord(args[0], paths)
	if format == report.FormatText {
		return writeOut(cmd, rec.Text())
	}
	return report.Encode(cmd.OutOrStdout(), format, rec)
}
