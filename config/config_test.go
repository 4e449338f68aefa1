package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/optimizer"
)

func bind(t *testing.T, args ...string) (*Config, *pflag.FlagSet) {
	c := NewConfig()
	v := NewViper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(v, fs)
	require.NoError(t, fs.Parse(args))
	require.NoError(t, c.Load(v, ""))
	return c, fs
}

func TestDefaults(t *testing.T) {
	c, _ := bind(t)
	assert.Equal(t, []string{"first-pass", "pushdown", "projection-merge", "final"}, c.Stages)
	assert.Equal(t, zapcore.InfoLevel, c.LogLevel)

	opts, err := c.OptimizerOptions()
	require.NoError(t, err)
	assert.Equal(t, optimizer.DefaultStages(), opts.Stages)
	assert.Zero(t, opts.MaxPasses)
	assert.False(t, opts.CheckInvariants)
}

func TestFlags(t *testing.T) {
	c, _ := bind(t, "--stages=pushdown,final", "--max-passes=4", "--check-invariants", "--log-level=debug", "--max-buffered-rows=10")
	opts, err := c.OptimizerOptions()
	require.NoError(t, err)
	assert.Equal(t, []optimizer.Stage{optimizer.StagePushdown, optimizer.StageFinal}, opts.Stages)
	assert.Equal(t, 4, opts.MaxPasses)
	assert.True(t, opts.CheckInvariants)
	assert.Equal(t, zapcore.DebugLevel, c.LogLevel)
	assert.Equal(t, 10, c.ExecutorContext().MaxBufferedRows)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("PLANOPT_MAX_RULE_APPLICATIONS", "25")
	t.Setenv("PLANOPT_STAGES", "final,pushdown")
	c, _ := bind(t)
	opts, err := c.OptimizerOptions()
	require.NoError(t, err)
	assert.Equal(t, 25, opts.MaxRuleApplications)
	assert.Equal(t, []optimizer.Stage{optimizer.StageFinal, optimizer.StagePushdown}, opts.Stages)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planopt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skip-optimization: true\nlog-format: json\nmax-passes: 2\n"), 0644))

	c := NewConfig()
	v := NewViper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(v, fs)
	require.NoError(t, fs.Parse([]string{"--max-passes=7"}))
	require.NoError(t, c.Load(v, path))

	assert.True(t, c.SkipOptimization)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 7, c.MaxPasses, "flags win over the file")

	_, err := c.Logger(os.Stderr)
	assert.NoError(t, err)
}

func TestInvalidSettings(t *testing.T) {
	c, _ := bind(t, "--stages=warp")
	_, err := c.OptimizerOptions()
	assert.True(t, common.HasCode(err, common.UnknownStageError))

	c, _ = bind(t, "--max-passes=-1")
	_, err = c.OptimizerOptions()
	assert.Error(t, err)

	c = NewConfig()
	v := NewViper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(v, fs)
	assert.Error(t, fs.Parse([]string{"--log-level=loud"}))
}
