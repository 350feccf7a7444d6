package main

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/drawer"
)

func newGraphCmd() *cobra.Command {
	var leftToRight bool
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the step dependency graph",
		Long:  `Prints, in the Graphviz DOT format, the processing steps and which steps are reset when one of them is invalidated.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := pipeline.StepGraph()
			if err != nil {
				return err
			}
			var options []drawer.DOTOption
			if leftToRight {
				options = append(options, drawer.GraphAttribute("rankdir", "LR"))
			}
			opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(cmd.OutOrStdout(), options...), nil, steps)
			if err := opt.New(); err != nil {
				return err
			}
			return opt.Finish(nil)
		},
	}
	cmd.Flags().BoolVar(&leftToRight, "lr", false, "lay the graph out from left to right")

	return cmd
}
