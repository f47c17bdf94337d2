package observability_test

import (
	"context"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/prometheus"

	"github.com/benz9527/xrbt/lib/tree"
	"github.com/benz9527/xrbt/observability"
)

// The exporter installs the global meter provider, so it has to run before
// the trees with stats are created.
func ExampleNewPrometheusMetricsExporter() {
	reg := promclient.NewRegistry()
	shutdown, err := observability.NewPrometheusMetricsExporter(prometheus.WithRegisterer(reg))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	rbt := tree.NewRBTree[string, int](tree.WithRBTreeStats[string, int]("example"))
	for i, key := range []string{"a", "b", "c", "d"} {
		_ = rbt.Insert(key, i)
	}
	rbt.Remove("a")

	families, err := reg.Gather()
	if err != nil {
		panic(err)
	}
	for _, mf := range families {
		if mf.GetName() == "rbtree_len" {
			fmt.Println(mf.GetName(), mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	// Output: rbtree_len 3
}
