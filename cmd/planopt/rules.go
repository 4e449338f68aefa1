package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"mit.edu/dsg/planopt"
)

func newRulesCommand(p *program) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules of every configured stage in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := p.cfg.OptimizerOptions()
			if err != nil {
				return err
			}
			// list the stages even when optimization is switched off
			opts.SkipOptimization = false
			stages, err := opts.ResolveStages()
			if err != nil {
				return err
			}
			reg := planopt.DefaultRegistry()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Stage", "#", "Rule"})
			table.SetAutoFormatHeaders(false)
			table.SetAutoMergeCellsByColumnIndex([]int{0})
			for _, s := range stages {
				for i, rule := range reg.Describe(s) {
					table.Append([]string{s.String(), strconv.Itoa(i + 1), rule})
				}
			}
			table.Render()
			return nil
		},
	}
}
