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
	"github.com/fulmenhq/svgaudit/internal/session"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/logger"
)

// failChecks maps --fail-on values to the report list they test.
var failChecks = map[string]func(session.Report) int{
	"missing":    func(r session.Report) int { return len(r.Missing) },
	"unused":     func(r session.Report) int { return len(r.Unused) },
	"dimensions": func(r session.Report) int { return len(r.Incorrect) },
}

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report missing, unused and incorrectly sized assets",
		Long: `Audit reconciles the asset folder with the usage map:

  missing     numbers absent from the bg<N>.svg sequence
  unused      assets no leaf references
  dimensions  measured assets whose size differs from the expected size

With --fail-on the command exits with a validation error when any of the
named lists is not empty.`,
		Args:        cobra.NoArgs,
		Annotations: ops.Annotate(ops.GroupAudit),
		RunE:        runAudit,
	}
	cmd.Flags().Bool("measure", true, "Measure asset dimensions")
	cmd.Flags().Int("workers", 0, "Concurrent measurements (default from config, 8)")
	cmd.Flags().String("format", "text", formatUsage(report.Formats...))
	cmd.Flags().StringSlice("fail-on", nil, "Fail when a list is not empty (missing|unused|dimensions)")
	return cmd
}

func runAudit(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd, report.Formats...)
	if err != nil {
		return err
	}
	failOn, _ := cmd.Flags().GetStringSlice("fail-on")
	for i, name := range failOn {
		failOn[i] = strings.ToLower(strings.TrimSpace(name))
		if _, ok := failChecks[failOn[i]]; !ok {
			return exitcode.Errorf(exitcode.UsageError, "unknown --fail-on value %q (want missing, unused or dimensions)", name)
		}
	}

	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.open(cmd.Context())
	if err != nil {
		return err
	}

	if measure, _ := cmd.Flags().GetBool("measure"); measure {
		if err := s.Measure(cmd.Context(), w.fs, w.images, w.cfg.Measure.Workers); err != nil {
			return err
		}
	}

	r := s.Report()
	f := report.NewFormatter(format, colorOutput(cmd))
	f.SetSequence(w.cfg.Sequence)
	out, err := f.FormatReport(r)
	if err != nil {
		return err
	}
	if err := writeOut(cmd, out); err != nil {
		return err
	}

	var failed []string
	for _, name := range failOn {
		if n := failChecks[name](r); n > 0 {
			failed = append(failed, fmt.Sprintf("%s (%d)", name, n))
		}
	}
	if len(failed) > 0 {
		return exitcode.Errorf(exitcode.ValidationError, "audit failed: %s", strings.Join(failed, ", "))
	}
	logger.Debug("Audit finished", logger.Int("assets", r.Assets), logger.Int("unused", len(r.Unused)))
	return nil
}
