// Package config holds the settings shared by the planopt commands. Every setting can be given as a flag, as
// an environment variable prefixed with PLANOPT_ (dashes become underscores) or in a config file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"mit.edu/dsg/planopt/execution"
	"mit.edu/dsg/planopt/logger"
	"mit.edu/dsg/planopt/optimizer"
)

const EnvPrefix = "PLANOPT"

type Config struct {
	Stages              []string
	SkipOptimization    bool
	MaxPasses           int
	MaxRuleApplications int
	CheckInvariants     bool
	MaxBufferedRows     int

	LogLevel  zapcore.Level
	LogFormat string

	opts []Opt
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() *Config {
	c := &Config{}
	var stages []string
	for _, s := range optimizer.DefaultStages() {
		stages = append(stages, s.String())
	}
	c.opts = []Opt{
		NewOpt(&c.Stages, "stages", stages, "optimization stages to run, in order"),
		NewOpt(&c.SkipOptimization, "skip-optimization", false, "return plans untouched"),
		NewOpt(&c.MaxPasses, "max-passes", 0, "maximum passes over the plan per stage (0 = unlimited)"),
		NewOpt(&c.MaxRuleApplications, "max-rule-applications", 0, "maximum rule firings per stage (0 = unlimited)"),
		NewOpt(&c.CheckInvariants, "check-invariants", false, "verify plan graph consistency after every rewrite"),
		NewOpt(&c.MaxBufferedRows, "max-buffered-rows", 0, "row budget of blocking operators when running plans (0 = unlimited)"),
		NewOpt(&c.LogLevel, "log-level", zapcore.InfoLevel, "supported log levels are debug, info, warn, error"),
		NewOpt(&c.LogFormat, "log-format", logger.FormatConsole, "log format: console, json, logfmt"),
	}
	// destinations hold the defaults until flags are bound
	c.Stages = stages
	c.LogLevel = zapcore.InfoLevel
	c.LogFormat = logger.FormatConsole
	return c
}

// NewViper returns a viper instance that reads PLANOPT_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// This normalizes "-" to an underscore in env names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// Bind registers every setting as a flag of fs and with v.
func (c *Config) Bind(v *viper.Viper, fs *pflag.FlagSet) {
	BindOptions(v, fs, c.opts)
}

// Load resolves the settings from v after the flags have been parsed. If path is not empty the file is read
// first; its values rank below flags and environment variables.
func (c *Config) Load(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return ReadOptions(v, c.opts)
}

// OptimizerOptions converts the settings into options for optimizer.Engine.Optimize.
func (c *Config) OptimizerOptions() (optimizer.Options, error) {
	opts := optimizer.Options{
		SkipOptimization:    c.SkipOptimization,
		MaxPasses:           c.MaxPasses,
		MaxRuleApplications: c.MaxRuleApplications,
		CheckInvariants:     c.CheckInvariants,
	}
	for _, entry := range c.Stages {
		// environment variables arrive as a single comma separated entry
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			stage, err := optimizer.ParseStage(name)
			if err != nil {
				return optimizer.Options{}, err
			}
			opts.Stages = append(opts.Stages, stage)
		}
	}
	if c.MaxPasses < 0 || c.MaxRuleApplications < 0 {
		return optimizer.Options{}, fmt.Errorf("max-passes and max-rule-applications must not be negative")
	}
	return opts, nil
}

func (c *Config) ExecutorContext() *execution.ExecutorContext {
	return execution.NewExecutorContext(c.MaxBufferedRows)
}

// Logger builds the logger selected by the log settings.
func (c *Config) Logger(w io.Writer) (*zap.Logger, error) {
	return logger.New(w, c.LogLevel, c.LogFormat)
}
