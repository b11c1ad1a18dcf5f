/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/internal/session"
	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/config"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/logger"
)

// workspace resolves the configured locations on the host filesystem.
// Every path is absolute and fs is rooted at "/", so relative and absolute
// settings address the same tree.
type workspace struct {
	cfg      *config.Config
	fs       billy.Filesystem
	images   string
	data     string
	fileList string
}

func newWorkspace(cmd *cobra.Command) (*workspace, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, err)
	}

	w := &workspace{cfg: cfg, fs: osfs.New(string(filepath.Separator))}
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&w.images, cfg.ImageFolder},
		{&w.data, cfg.JSONPath},
		{&w.fileList, cfg.FileListPath()},
	} {
		abs, err := filepath.Abs(p.src)
		if err != nil {
			return nil, exitcode.Wrap(exitcode.FileSystemError, err)
		}
		*p.dst = abs
	}
	logger.Debug("Workspace resolved",
		logger.String("images", w.images),
		logger.String("data", w.data),
		logger.String("file_list", w.fileList))
	return w, nil
}

func (w *workspace) discoverOptions() catalog.DiscoverOptions {
	return catalog.DiscoverOptions{
		Include:  w.cfg.Include,
		Trailing: w.cfg.TrailingFiles,
		Sequence: w.cfg.Sequence,
		Exclude:  w.cfg.Exclude,
	}
}

func (w *workspace) sessionOptions() session.Options {
	return session.Options{Sequence: w.cfg.Sequence, Expected: w.cfg.Dimensions}
}

// open loads the usage tree and the asset listing and fails unless both
// are available.
func (w *workspace) open(ctx context.Context) (*session.Session, error) {
	s := session.Open(ctx,
		session.TreeFromFile(w.fs, w.data),
		session.ListingFromFileList(w.fs, w.fileList, w.images, w.discoverOptions()),
		w.sessionOptions())
	if err := s.Require(true, true); err != nil {
		return nil, exitcode.Wrap(exitcode.DataError, err)
	}
	return s, nil
}

// openTree loads only the usage tree.
func (w *workspace) openTree(ctx context.Context) (*session.Session, error) {
	s := session.Open(ctx, session.TreeFromFile(w.fs, w.data), session.StaticListing(nil), w.sessionOptions())
	if err := s.Require(true, false); err != nil {
		return nil, exitcode.Wrap(exitcode.DataError, err)
	}
	return s, nil
}

// colorOutput reports whether command output goes to a colour terminal.
func colorOutput(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputFormat reads --format, rejecting formats outside allowed.
func outputFormat(cmd *cobra.Command, allowed ...report.OutputFormat) (report.OutputFormat, error) {
	raw, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(raw)
	if err != nil {
		return "", exitcode.Wrap(exitcode.UnsupportedFormat, err)
	}
	for _, a := range allowed {
		if a == format {
			return format, nil
		}
	}
	return "", exitcode.Errorf(exitcode.UnsupportedFormat, "format %s is not supported by %s", format, cmd.Name())
}

func writeOut(cmd *cobra.Command, s string) error {
	_, err := io.WriteString(cmd.OutOrStdout(), s)
	return err
}

func formatUsage(allowed ...report.OutputFormat) string {
	s := "Output format ("
	for i, f := range allowed {
		if i > 0 {
			s += "|"
		}
		s += string(f)
	}
	return fmt.Sprintf("%s)", s)
}
