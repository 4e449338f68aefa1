package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"mit.edu/dsg/planopt/planner"
	"sigs.k8s.io/yaml"
)

// report summarizes one optimization for --report.
type report struct {
	Stages       []string         `json:"stages"`
	NodesBefore  int              `json:"nodes_before"`
	NodesAfter   int              `json:"nodes_after"`
	Replacements int64            `json:"replacements"`
	Pruned       int64            `json:"pruned"`
	RulesFired   map[string]int64 `json:"rules_fired,omitempty"`
}

func newExplainCommand(p *program) *cobra.Command {
	var withReport bool
	cmd := &cobra.Command{
		Use:   "explain <plan.yaml>",
		Short: "Print a plan before and after optimization",
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
			stages, err := opts.ResolveStages()
			if err != nil {
				return err
			}

			before := planner.Explain(plan)
			nodesBefore := planner.CountNodes(plan)
			optimized, err := po.Optimize(plan, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Original plan:\n%s\nOptimized plan:\n%s", before, planner.Explain(optimized))
			if !withReport {
				return nil
			}

			r := report{
				NodesBefore:  nodesBefore,
				NodesAfter:   planner.CountNodes(optimized),
				Replacements: po.Engine.Stats().Replacements(),
				Pruned:       po.Engine.Stats().Pruned(),
				RulesFired:   po.Engine.Stats().FiredByRule(),
			}
			for _, s := range stages {
				r.Stages = append(r.Stages, s.String())
			}
			b, err := yaml.Marshal(r)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nReport:\n%s", b)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withReport, "report", false, "also print a YAML summary of the rewrites")
	return cmd
}
