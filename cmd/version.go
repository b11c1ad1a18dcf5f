/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Show the svgaudit version",
		Args:        cobra.NoArgs,
		Annotations: ops.Annotate(ops.GroupSupport),
		RunE:        runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	cmd.Flags().String("format", "text", formatUsage(report.Formats...))
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd, report.Formats...)
	if err != nil {
		return err
	}
	info := buildinfo.Current()
	if format != report.FormatText {
		return report.Encode(cmd.OutOrStdout(), format, info)
	}

	extended, _ := cmd.Flags().GetBool("extended")
	var sb strings.Builder
	fmt.Fprintf(&sb, "svgaudit %s\n", info.Version)
	if extended {
		if info.Module != "" {
			fmt.Fprintf(&sb, "Module: %s\n", info.Module)
		}
		fmt.Fprintf(&sb, "Git commit: %s\n", orUnknown(info.Commit))
		fmt.Fprintf(&sb, "Build date: %s\n", orUnknown(info.BuildDate))
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch: %s\n", info.Platform)
	return writeOut(cmd, sb.String())
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
