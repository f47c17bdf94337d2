package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xrbt/rbtree"
	rebalanceCase   = "rbtree.rebalance.case"
)

// rbTreeStats methods are nil-safe, a tree without stats holds a nil pointer.
type rbTreeStats struct {
	length     metric.Int64UpDownCounter
	rotations  metric.Int64Counter
	rebalances metric.Int64Counter
}

func (stats *rbTreeStats) RecordLen(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.length.Add(context.Background(), delta)
}

func (stats *rbTreeStats) IncreaseRotateCount() {
	if stats == nil {
		return
	}
	stats.rotations.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseRebalanceCount(c string) {
	if stats == nil {
		return
	}
	stats.rebalances.Add(context.Background(), 1,
		metric.WithAttributeSet(attribute.NewSet(attribute.String(rebalanceCase, c))),
	)
}

func newRBTreeStats(name string) *rbTreeStats {
	meterName := RBTreeStatsName
	if len(name) > 0 {
		meterName = fmt.Sprintf("%s/%s", RBTreeStatsName, name)
	}
	meter := otel.Meter(meterName)
	return &rbTreeStats{
		length: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"rbtree.len",
			metric.WithDescription("The number of entries in the rbtree."),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rotate.count",
			metric.WithDescription("The number of rotations applied by the rbtree rebalancing."),
		)),
		rebalances: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rebalance.count",
			metric.WithDescription("The number of rebalance cases hit, by case."),
		)),
	}
}
