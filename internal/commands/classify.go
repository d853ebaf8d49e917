package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
)

type classifyOptions struct {
	root    *rootOptions
	service string
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	opts := &classifyOptions{root: root}

	cmd := &cobra.Command{
		Use:   "classify <model>",
		Short: "Print how each shape of a model is classified",
		Long: `Print how each shape of a model is classified.

DIRECT marks shapes carrying a constraint themselves, REACHES shapes from
which a constrained shape can be reached, and INPUT shapes reachable from an
operation input. Cyclic member edges are listed under BOXED.`,
		Example: `  shapegen classify model.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.service, "service", "", "Service shape id used for renames (defaults to the only service)")
	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions, path string) error {
	m, err := loadModel(path, opts.service)
	if err != nil {
		return err
	}
	cls := constraint.New(m)
	if err := cls.Validate(); err != nil {
		return err
	}
	inputs := ir.ReachableFromInputs(m)
	opts.root.logger(cmd.ErrOrStderr()).Debug("classifying", "model", path)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SHAPE\tKIND\tDIRECT\tREACHES\tINPUT\tBOXED")
	for s := range m.UserShapes() {
		switch s.(type) {
		case *ir.Operation, *ir.Service:
			continue
		}
		var boxed []string
		for _, mem := range ir.Members(s) {
			if cls.IsOnCycle(mem) {
				boxed = append(boxed, mem.Name)
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID(), s.Kind(),
			mark(cls.IsDirectlyConstrained(s)),
			mark(cls.ReachesConstrainedShape(s)),
			mark(inputs[s.ID()]),
			list(boxed))
	}
	return w.Flush()
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
