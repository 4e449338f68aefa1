package planopt

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planopt/catalog"
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

func TestDefaultRegistryIsShared(t *testing.T) {
	const n = 8
	regs := make([]*optimizer.Registry, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i] = DefaultRegistry()
		}(i)
	}
	wg.Wait()
	for _, r := range regs {
		assert.Same(t, regs[0], r)
	}
	assert.NotEmpty(t, regs[0].Describe(optimizer.StageFirstPass))
}

func TestLoadOptimizeRun(t *testing.T) {
	p := NewPlanOptimizer(catalog.New(), nil)
	reg := prometheus.NewRegistry()
	reg.MustRegister(p.PrometheusCollectors()...)

	plan, err := p.LoadPlan("plandesc/testdata/orders.yaml")
	require.NoError(t, err)
	before, err := p.Run(plan, nil)
	require.NoError(t, err)

	optimized, err := p.Optimize(plan, optimizer.Options{CheckInvariants: true})
	require.NoError(t, err)
	after, err := p.Run(optimized, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// identity removed, filter pushed below both projections which then merged, limit over sort became a top-n
	topN, ok := optimized.(*planner.TopNNode)
	require.True(t, ok, "got:\n%s", planner.Explain(optimized))
	proj := topN.Child.(*planner.ProjectionNode)
	assert.Equal(t, []int{1, 2}, proj.Indices)
	f := proj.Child.(*planner.FilterNode)
	assert.IsType(t, &planner.SourceNode{}, f.Child)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.Optimizations.WithLabelValues("success")))
	assert.Positive(t, testutil.ToFloat64(p.Metrics.Replacements))
}
