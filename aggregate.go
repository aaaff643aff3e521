package veil

import "fmt"

// AggregateType names a column-level statistic.
type AggregateType string

// AggregateCount replaces a column with its value count.
const AggregateCount AggregateType = "count"

// AggregateMarker is the per-value stand-in the element-wise path uses
// for aggregate rules. Aggregation is a column-level operation; the
// marker keeps the engine's order- and length-preserving contract while
// revealing nothing per value. Use Engine.AggregateColumn for the actual
// statistic.
func AggregateMarker(agg AggregateType) string {
	return fmt.Sprintf("[AGGREGATE:%s]", agg)
}

// aggregateTransformer substitutes the aggregate marker per value.
type aggregateTransformer struct {
	marker string
}

// NewAggregateTransformer returns the marker-substituting transformer for
// an aggregate type.
func NewAggregateTransformer(agg AggregateType) Transformer {
	if agg == "" {
		agg = AggregateCount
	}
	return &aggregateTransformer{marker: AggregateMarker(agg)}
}

func (a *aggregateTransformer) Transform(value any) any {
	if valueString(value) == "" {
		return ""
	}
	return a.marker
}

// keepTransformer is the identity transform.
type keepTransformer struct{}

// NewKeepTransformer returns the pass-through transformer.
func NewKeepTransformer() Transformer {
	return keepTransformer{}
}

func (keepTransformer) Transform(value any) any {
	return value
}
