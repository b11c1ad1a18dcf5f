/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/snippet"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

func newSnippetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snippet <path>",
		Short: "Print the TypeScript declarations for a card",
		Long: `Snippet prints the moduleName, pageName and noDataStatus declarations a page
component needs for the card at a path such as "hr > leave > approved".`,
		Args:        cobra.ExactArgs(1),
		Annotations: ops.Annotate(ops.GroupBrowse),
		RunE:        runSnippet,
	}
}

func runSnippet(cmd *cobra.Command, args []string) error {
	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.openTree(cmd.Context())
	if err != nil {
		return err
	}

	path := usagetree.ParsePath(args[0])
	n, err := usagetree.Resolve(s.Tree(), path)
	if err != nil {
		return exitcode.Wrap(exitcode.ValidationError, err)
	}
	if _, ok := n.(*usagetree.Leaf); !ok {
		return exitcode.Wrap(exitcode.ValidationError, &usagetree.PathError{Path: path, Err: usagetree.ErrNotLeaf})
	}

	out, err := snippet.Render(s.Tree(), path)
	if err != nil {
		return err
	}
	return writeOut(cmd, out+"\n")
}
