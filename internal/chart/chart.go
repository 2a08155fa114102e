package chart

import (
	"fmt"

	"scamlab-go/internal/aggregate"
)

// Kind selects one of the fixed chart renderings. The values double as the
// labels shown on the chart selector.
type Kind string

const (
	KindScenarioFrequency Kind = "Scenario Frequency"
	KindCallLengths       Kind = "Call Length Distribution"
	KindResponseBreakdown Kind = "Response Type Distribution"
	KindTopResponses      Kind = "Top Responses"
)

// Kinds lists every supported chart kind in display order.
func Kinds() []Kind {
	return []Kind{KindScenarioFrequency, KindCallLengths, KindResponseBreakdown, KindTopResponses}
}

var (
	barPalette = []string{"#36A2EB", "#FF6384", "#FFCE56", "#4BC0C0"}
	piePalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0"}
)

// Spec is a declarative plotly-style chart description. The frontend hands
// it to its plotting library unchanged.
type Spec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type         string   `json:"type"`
	Orientation  string   `json:"orientation,omitempty"`
	X            []any    `json:"x,omitempty"`
	Y            []any    `json:"y,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Values       []int    `json:"values,omitempty"`
	Text         []string `json:"text,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	TextInfo     string   `json:"textinfo,omitempty"`
	Marker       Marker   `json:"marker"`
}

// Marker styles a trace. Color holds either a single color or a
// per-category array; plotly pie traces take their palette under the
// plural Colors key instead.
type Marker struct {
	Color   any      `json:"color,omitempty"`
	Colors  []string `json:"colors,omitempty"`
	Opacity float64  `json:"opacity,omitempty"`
}

type Layout struct {
	Title  string  `json:"title"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	BarGap float64 `json:"bargap,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
}

type Axis struct {
	Title      string `json:"title"`
	AutoMargin bool   `json:"automargin,omitempty"`
}

type Margin struct {
	L int `json:"l"`
}

// Render maps an aggregation view onto a chart spec. It performs no
// aggregation of its own beyond the histogram bucketing and never mutates
// the view, so switching kinds is just re-rendering the same inputs.
func Render(view aggregate.View, kind Kind) (Spec, error) {
	switch kind {
	case KindScenarioFrequency:
		return scenarioFrequency(view), nil
	case KindCallLengths:
		return callLengths(view), nil
	case KindResponseBreakdown:
		return responseBreakdown(view), nil
	case KindTopResponses:
		return topResponses(view), nil
	}
	return Spec{}, fmt.Errorf("unknown chart kind %q", kind)
}

// scenarioFrequency is a vertical bar chart with alphabetically sorted
// scenario labels.
func scenarioFrequency(view aggregate.View) Spec {
	keys := view.Scenarios.SortedKeys()
	return Spec{
		Data: []Trace{{
			Type:   "bar",
			X:      toAny(keys),
			Y:      countsToAny(view.Scenarios.Values(keys)),
			Marker: Marker{Color: barPalette},
		}},
		Layout: Layout{
			Title:  "Scenario Frequency",
			XAxis:  &Axis{Title: "Scenario Type"},
			YAxis:  &Axis{Title: "Count"},
			BarGap: 0.3,
		},
	}
}

// callLengths is the binned call-length histogram.
func callLengths(view aggregate.View) Spec {
	buckets := aggregate.Histogram(view.CallLengths)
	labels := make([]any, len(buckets))
	counts := make([]any, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		counts[i] = b.Count
	}
	return Spec{
		Data: []Trace{{
			Type:   "bar",
			X:      labels,
			Y:      counts,
			Marker: Marker{Color: "#FF5733", Opacity: 0.6},
		}},
		Layout: Layout{
			Title:  "Call Length Distribution",
			XAxis:  &Axis{Title: "Call Length (s)"},
			YAxis:  &Axis{Title: "Frequency"},
			BarGap: 0.05,
		},
	}
}

// responseBreakdown is a pie with label+percent text, responses in natural
// (first-seen) order.
func responseBreakdown(view aggregate.View) Spec {
	keys := view.Responses.Keys()
	return Spec{
		Data: []Trace{{
			Type:     "pie",
			Labels:   keys,
			Values:   view.Responses.Values(keys),
			TextInfo: "label+percent",
			Marker:   Marker{Colors: piePalette},
		}},
		Layout: Layout{Title: "Response Type Distribution"},
	}
}

// topResponses is a horizontal bar chart in natural order with the count
// printed outside each bar.
func topResponses(view aggregate.View) Spec {
	keys := view.Responses.Keys()
	counts := view.Responses.Values(keys)
	text := make([]string, len(counts))
	for i, c := range counts {
		text[i] = fmt.Sprintf("%d", c)
	}
	return Spec{
		Data: []Trace{{
			Type:         "bar",
			Orientation:  "h",
			X:            countsToAny(counts),
			Y:            toAny(keys),
			Text:         text,
			TextPosition: "outside",
			Marker:       Marker{Color: "#4BC0C0"},
		}},
		Layout: Layout{
			Title:  "Top Response Types",
			XAxis:  &Axis{Title: "Count"},
			YAxis:  &Axis{Title: "Response Type", AutoMargin: true},
			Margin: &Margin{L: 250},
		},
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func countsToAny(ns []int) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
