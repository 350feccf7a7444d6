package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-slaprint/pkg/flowcomp"
)

var errNoFlowModel = errors.New("no small area infill flow compensation model configured")

type flowOptions struct {
	*rootOptions
	length float64
	delta  float64
	role   string
}

func newFlowCmd(root *rootOptions) *cobra.Command {
	opts := &flowOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Evaluate the small area infill flow compensation",
		Long: `Loads the flow compensation model of the configuration and prints the extrusion
amount adjusted for an extrusion of the given length and role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			comp, err := cfg.FlowCompensator()
			if err != nil {
				return err
			}
			if comp == nil {
				return errNoFlowModel
			}
			role, err := flowcomp.ParseRole(opts.role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g\n", comp.Modify(opts.length, opts.delta, role))
			return err
		},
	}
	cmd.Flags().Float64Var(&opts.length, "length", 0, "extrusion length in mm")
	cmd.Flags().Float64Var(&opts.delta, "delta", 1, "extrusion amount to adjust")
	cmd.Flags().StringVar(&opts.role, "role", "solid-infill", "extrusion role")
	return cmd
}
