package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newRunCommand(p *program) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Optimize a plan and print the rows it produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po, plan, err := p.loadPlan(args[0])
			if err != nil {
				return err
			}
			opts, err := p.cfg.OptimizerOptions()
			if err != nil {
				return err
			}
			optimized, err := po.Optimize(plan, opts)
			if err != nil {
				return err
			}
			tuples, err := po.Run(optimized, p.cfg.ExecutorContext())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			schema := optimized.OutputSchema()
			header := make([]string, len(schema))
			for i, c := range schema {
				header[i] = c.Name
			}
			table := tablewriter.NewWriter(out)
			table.SetHeader(header)
			table.SetAutoFormatHeaders(false)
			for _, tup := range tuples {
				row := make([]string, tup.NumColumns())
				for i := range row {
					row[i] = tup.GetValue(i).String()
				}
				table.Append(row)
			}
			table.Render()
			fmt.Fprintf(out, "(%d rows)\n", len(tuples))
			return nil
		},
	}
}
