/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Filter the usage map by path, image, text or paragraph",
		Long: `Search keeps the leaves whose path, image, text or paragraph contains every
query term, ignoring case, together with their parent branches.

Examples:
   svgaudit search leave
   svgaudit search "no records" --flat --details`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: ops.Annotate(ops.GroupBrowse),
		RunE:        runSearch,
	}
	cmd.Flags().Bool("flat", false, "List matching leaves instead of drawing the tree")
	cmd.Flags().Bool("details", false, "Show text and paragraph under each leaf")
	cmd.Flags().String("format", "text", formatUsage(report.FormatText, report.FormatJSON))
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, report.FormatText, report.FormatJSON)
	if err != nil {
		return err
	}
	flat, _ := cmd.Flags().GetBool("flat")
	details, _ := cmd.Flags().GetBool("details")

	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.openTree(cmd.Context())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	filtered := s.Search(query)

	if format == report.FormatJSON {
		if flat {
			return report.Encode(cmd.OutOrStdout(), format, report.LeafRecords(usagetree.Leaves(filtered)))
		}
		return usagetree.Encode(cmd.OutOrStdout(), filtered)
	}

	view := report.TreeView{Query: query, Marker: w.cfg.Marker(colorOutput(cmd)), Details: details}
	if flat {
		return writeOut(cmd, view.RenderLeaves(usagetree.Leaves(filtered)))
	}
	if filtered.Len() == 0 {
		return writeOut(cmd, "No matches\n")
	}
	return writeOut(cmd, view.Render(w.cfg.JSONPath, filtered))
}
