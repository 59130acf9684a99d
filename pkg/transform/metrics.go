package transform

import (
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	mpb "go.opentelemetry.io/proto/otlp/metrics/v1"
)

// Metrics is the default wire codec for metric batches.
type Metrics struct{}

// ResourceMetrics converts one collected batch into its wire message.
func (Metrics) ResourceMetrics(rm *metricdata.ResourceMetrics) *mpb.ResourceMetrics {
	if rm == nil {
		return &mpb.ResourceMetrics{}
	}

	out := &mpb.ResourceMetrics{
		Resource:     Resource(rm.Resource),
		ScopeMetrics: scopeMetrics(rm.ScopeMetrics),
	}
	if rm.Resource != nil {
		out.SchemaUrl = rm.Resource.SchemaURL()
	}

	return out
}

func scopeMetrics(in []metricdata.ScopeMetrics) []*mpb.ScopeMetrics {
	out := make([]*mpb.ScopeMetrics, 0, len(in))
	for _, sm := range in {
		out = append(out, &mpb.ScopeMetrics{
			Scope:     Scope(sm.Scope),
			SchemaUrl: sm.Scope.SchemaURL,
			Metrics:   metrics(sm.Metrics),
		})
	}

	return out
}

func metrics(in []metricdata.Metrics) []*mpb.Metric {
	out := make([]*mpb.Metric, 0, len(in))

	for _, m := range in {
		converted := metric(m)
		if converted == nil {
			continue
		}

		out = append(out, converted)
	}

	return out
}

// metric converts a single instrument's aggregation. Unsupported
// aggregations yield nil and are dropped by the caller.
func metric(m metricdata.Metrics) *mpb.Metric {
	out := &mpb.Metric{
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
	}

	switch data := m.Data.(type) {
	case metricdata.Gauge[int64]:
		out.Data = &mpb.Metric_Gauge{Gauge: &mpb.Gauge{
			DataPoints: numberDataPoints(data.DataPoints),
		}}
	case metricdata.Gauge[float64]:
		out.Data = &mpb.Metric_Gauge{Gauge: &mpb.Gauge{
			DataPoints: numberDataPoints(data.DataPoints),
		}}
	case metricdata.Sum[int64]:
		out.Data = &mpb.Metric_Sum{Sum: &mpb.Sum{
			AggregationTemporality: temporality(data.Temporality),
			IsMonotonic:            data.IsMonotonic,
			DataPoints:             numberDataPoints(data.DataPoints),
		}}
	case metricdata.Sum[float64]:
		out.Data = &mpb.Metric_Sum{Sum: &mpb.Sum{
			AggregationTemporality: temporality(data.Temporality),
			IsMonotonic:            data.IsMonotonic,
			DataPoints:             numberDataPoints(data.DataPoints),
		}}
	case metricdata.Histogram[int64]:
		out.Data = &mpb.Metric_Histogram{Histogram: &mpb.Histogram{
			AggregationTemporality: temporality(data.Temporality),
			DataPoints:             histogramDataPoints(data.DataPoints),
		}}
	case metricdata.Histogram[float64]:
		out.Data = &mpb.Metric_Histogram{Histogram: &mpb.Histogram{
			AggregationTemporality: temporality(data.Temporality),
			DataPoints:             histogramDataPoints(data.DataPoints),
		}}
	default:
		return nil
	}

	return out
}

func numberDataPoints[N int64 | float64](in []metricdata.DataPoint[N]) []*mpb.NumberDataPoint {
	out := make([]*mpb.NumberDataPoint, 0, len(in))

	for _, dp := range in {
		point := &mpb.NumberDataPoint{
			Attributes:        KeyValues(dp.Attributes.ToSlice()),
			StartTimeUnixNano: timeUnixNano(dp.StartTime),
			TimeUnixNano:      timeUnixNano(dp.Time),
		}

		switch value := any(dp.Value).(type) {
		case int64:
			point.Value = &mpb.NumberDataPoint_AsInt{AsInt: value}
		case float64:
			point.Value = &mpb.NumberDataPoint_AsDouble{AsDouble: value}
		}

		out = append(out, point)
	}

	return out
}

func histogramDataPoints[N int64 | float64](in []metricdata.HistogramDataPoint[N]) []*mpb.HistogramDataPoint {
	out := make([]*mpb.HistogramDataPoint, 0, len(in))

	for _, dp := range in {
		sum := float64(dp.Sum)

		point := &mpb.HistogramDataPoint{
			Attributes:        KeyValues(dp.Attributes.ToSlice()),
			StartTimeUnixNano: timeUnixNano(dp.StartTime),
			TimeUnixNano:      timeUnixNano(dp.Time),
			Count:             dp.Count,
			Sum:               &sum,
			BucketCounts:      dp.BucketCounts,
			ExplicitBounds:    dp.Bounds,
		}

		if value, ok := dp.Min.Value(); ok {
			minimum := float64(value)
			point.Min = &minimum
		}

		if value, ok := dp.Max.Value(); ok {
			maximum := float64(value)
			point.Max = &maximum
		}

		out = append(out, point)
	}

	return out
}

func temporality(t metricdata.Temporality) mpb.AggregationTemporality {
	switch t {
	case metricdata.DeltaTemporality:
		return mpb.AggregationTemporality_AGGREGATION_TEMPORALITY_DELTA
	case metricdata.CumulativeTemporality:
		return mpb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE
	default:
		return mpb.AggregationTemporality_AGGREGATION_TEMPORALITY_UNSPECIFIED
	}
}
