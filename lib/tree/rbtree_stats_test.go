package tree

import (
	"context"
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func collectSums(t *testing.T, reader sdkmetric.Reader, scope string) map[string]metricdata.Sum[int64] {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string]metricdata.Sum[int64])
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != scope {
			continue
		}
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.Truef(t, ok, "metric %s is not an int64 sum", m.Name)
			sums[m.Name] = sum
		}
	}
	return sums
}

func total(sum metricdata.Sum[int64]) int64 {
	res := int64(0)
	for _, dp := range sum.DataPoints {
		res += dp.Value
	}
	return res
}

func TestRbtreeStats(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(ctx)
	}()

	tree := NewRBTree[int, int](WithRBTreeStats[int, int]("stats-test"))
	for i := 0; i < 100; i++ {
		require.NoError(t, tree.Insert(i, i))
	}
	require.ErrorIs(t, tree.Insert(10, 10), ErrDuplicateKey)
	for i := 0; i < 50; i++ {
		require.True(t, tree.Remove(i))
	}
	require.False(t, tree.Remove(1000))

	sums := collectSums(t, reader, RBTreeStatsName+"/stats-test")
	require.Contains(t, sums, "rbtree.len")
	require.Contains(t, sums, "rbtree.rotate.count")
	require.Contains(t, sums, "rbtree.rebalance.count")
	require.Equal(t, int64(50), total(sums["rbtree.len"]))
	require.False(t, sums["rbtree.len"].IsMonotonic)
	require.Greater(t, total(sums["rbtree.rotate.count"]), int64(0))

	cases := make(map[string]int64)
	for _, dp := range sums["rbtree.rebalance.count"].DataPoints {
		c, ok := dp.Attributes.Value(attribute.Key(rebalanceCase))
		require.True(t, ok)
		cases[c.AsString()] += dp.Value
	}
	// Sequential inserts always recolor and rotate.
	require.Greater(t, cases["insert.recolor"], int64(0))
	require.Greater(t, cases["insert.rotate"], int64(0))

	tree.Release()
	sums = collectSums(t, reader, RBTreeStatsName+"/stats-test")
	require.Equal(t, int64(0), total(sums["rbtree.len"]))
}

func TestRbtreeStats_Disabled(t *testing.T) {
	var stats *rbTreeStats
	require.NotPanics(t, func() {
		stats.RecordLen(1)
		stats.IncreaseRotateCount()
		stats.IncreaseRebalanceCount("insert.rotate")
	})

	tree := NewRBTree[int, int]().(*rbTree[int, int])
	require.Nil(t, tree.stats)
	require.NoError(t, tree.Insert(1, 1))
	require.True(t, tree.Remove(1))
}

// Every rebalance branch of insertion and removal is hit by a long random
// run, validated along the way.
func TestRbtreeRebalance_CaseCoverage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree := NewRBTree[uint64, uint64](WithRBTreeLogger[uint64, uint64](zap.New(core)))

	rng := randv2.New(randv2.NewPCG(42, 24))
	for i := 0; i < 20000; i++ {
		key := rng.Uint64N(512)
		if rng.IntN(2) == 0 {
			_ = tree.Insert(key, key)
		} else {
			tree.Remove(key)
		}
		if i%100 == 0 {
			require.NoError(t, Validate(tree))
		}
	}
	require.NoError(t, Validate(tree))

	hits := make(map[string]int)
	for _, entry := range logs.FilterMessage("rbtree rebalance").All() {
		require.Equal(t, "rbtree", entry.LoggerName)
		hits[entry.ContextMap()["case"].(string)]++
	}
	for _, c := range []string{
		"insert.recolor",
		"insert.zigzag",
		"insert.rotate",
		"remove.absorb",
		"remove.borrow",
		"remove.red-parent.recolor",
		"remove.red-parent.rotate",
		"remove.red-sibling.rotate",
		"remove.red-sibling.normalize",
		"remove.black-sibling.zigzag",
		"remove.black-sibling.rotate",
	} {
		require.Greaterf(t, hits[c], 0, "rebalance case %s never hit", c)
	}
}

func TestRbtreeInvariantViolation_Logged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	tree := NewRBTree[int, int](WithRBTreeLogger[int, int](zap.New(core))).(*rbTree[int, int])
	require.NoError(t, tree.Insert(1, 1))

	require.Panics(t, func() {
		tree.rotate(tree.root)
	})
	entries := logs.FilterMessage("rbtree invariant violation").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.EqualValues(t, 1, entries[0].ContextMap()["key"])
}
