package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"mit.edu/dsg/planopt"
	"mit.edu/dsg/planopt/catalog"
	"mit.edu/dsg/planopt/config"
	"mit.edu/dsg/planopt/planner"
)

// program holds the state shared by every sub-command.
type program struct {
	cfg        *config.Config
	v          *viper.Viper
	configPath string
	catalogDir string

	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
}

// NewRootCommand creates the planopt command with all of its sub-commands.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	p := &program{
		cfg:    config.NewConfig(),
		v:      config.NewViper(),
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:          "planopt",
		Short:        "Rule-driven optimizer for columnar query plans",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return p.init()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&p.configPath, "config", "", "path to a config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&p.catalogDir, "catalog", "", "directory of a persisted catalog whose sources plans may read")
	p.cfg.Bind(p.v, root.PersistentFlags())

	// List of available sub-commands
	// If a new sub-command is created, it must be added here
	subCommands := []*cobra.Command{
		newExplainCommand(p),
		newRunCommand(p),
		newRulesCommand(p),
	}
	root.AddCommand(subCommands...)

	return root
}

func (p *program) init() error {
	if err := p.cfg.Load(p.v, p.configPath); err != nil {
		return err
	}
	log, err := p.cfg.Logger(p.stderr)
	if err != nil {
		return err
	}
	p.log = log
	return nil
}

// loadPlan builds the optimizer container and the plan described by the file at path.
func (p *program) loadPlan(path string) (*planopt.PlanOptimizer, planner.PlanNode, error) {
	cat := catalog.New()
	if p.catalogDir != "" {
		var err error
		if cat, err = catalog.NewCatalog(catalog.NewDiskCatalogManager(p.catalogDir)); err != nil {
			return nil, nil, err
		}
	}
	po := planopt.NewPlanOptimizer(cat, p.log)
	plan, err := po.LoadPlan(path)
	if err != nil {
		return nil, nil, err
	}
	p.log.Debug("Loaded plan", zap.String("path", path), zap.Int("nodes", planner.CountNodes(plan)))
	return po, plan, nil
}
