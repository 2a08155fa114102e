package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scamlab-go/internal/dataset"
)

// View is the derived aggregation over one (possibly filtered) row set.
// It is recomputed whenever the row set changes and never stored.
type View struct {
	Scenarios   *Counter
	Responses   *Counter
	CallLengths []float64
}

// Aggregate counts scenario and response occurrences per row (empty values
// excluded) and collects call lengths as float samples. Rows whose call
// length does not parse are dropped from the samples, not reported.
func Aggregate(rows []dataset.Row) View {
	v := View{
		Scenarios: NewCounter(),
		Responses: NewCounter(),
	}
	for _, r := range rows {
		if r.Scenario != "" {
			v.Scenarios.Add(r.Scenario)
		}
		if r.Response != "" {
			v.Responses.Add(r.Response)
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(r.CallLength), 64); err == nil && !math.IsNaN(f) {
			v.CallLengths = append(v.CallLengths, f)
		}
	}
	return v
}

// histogramEdges are the fixed call-length bucket boundaries in seconds.
// Buckets are half-open [low, high); the last bucket is unbounded above.
var histogramEdges = []float64{0, 50, 100, 150, 200, 250}

// Bucket is one histogram bar.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram buckets the samples into the fixed edges. The counts always sum
// to len(samples): negative samples land in the first bucket, everything at
// or above the last edge lands in the unbounded one.
func Histogram(samples []float64) []Bucket {
	buckets := make([]Bucket, len(histogramEdges))
	for i, low := range histogramEdges {
		if i == len(histogramEdges)-1 {
			buckets[i].Label = fmt.Sprintf("%.0f+s", low)
		} else {
			buckets[i].Label = fmt.Sprintf("%.0f-%.0fs", low, histogramEdges[i+1])
		}
	}
	for _, s := range samples {
		i := 0
		for i < len(histogramEdges)-1 && s >= histogramEdges[i+1] {
			i++
		}
		buckets[i].Count++
	}
	return buckets
}
