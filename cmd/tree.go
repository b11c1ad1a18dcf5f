/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/internal/report"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

func newTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Draw the usage map or one branch of it",
		Long: `Tree draws the whole usage map, or the branch at a path such as
"hr > leave", with the image of every leaf.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: ops.Annotate(ops.GroupBrowse),
		RunE:        runTree,
	}
	cmd.Flags().Bool("details", false, "Show text and paragraph under each leaf")
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	details, _ := cmd.Flags().GetBool("details")

	w, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	s, err := w.openTree(cmd.Context())
	if err != nil {
		return err
	}

	root := s.Tree()
	label := w.cfg.JSONPath
	if len(args) == 1 {
		path := usagetree.ParsePath(args[0])
		n, err := usagetree.Resolve(root, path)
		if err != nil {
			return exitcode.Wrap(exitcode.ValidationError, err)
		}
		branch, ok := n.(*usagetree.Branch)
		if !ok {
			branch = usagetree.NewBranch()
			branch.Set(path[len(path)-1], n)
			path = path[:len(path)-1]
		}
		root = branch
		if len(path) > 0 {
			label = path.String()
		}
	}
	return writeOut(cmd, report.TreeView{Details: details}.Render(label, root))
}
