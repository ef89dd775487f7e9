package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(results), "encoding results")
}

// ReadJSON reads results written by WriteJSON.
func ReadJSON(r io.Reader) ([]Result, error) {
	var results []Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, errors.Wrap(err, "decoding results")
	}
	return results, nil
}

// RenderChart writes an HTML page with, for each degree, the speedup of
// tiered verification over plain verification and the tiered throughput,
// both as functions of the invalid fraction, one line per index count.
func RenderChart(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return errors.New("no results to plot")
	}
	page := components.NewPage().SetPageTitle("Tiered signature verification")
	for _, degree := range distinctInts(results, func(r Result) int { return r.Degree }) {
		var sub []Result
		for _, r := range results {
			if r.Degree == degree {
				sub = append(sub, r)
			}
		}
		page.AddCharts(
			lineChart(sub, fmt.Sprintf("Falcon-%d: speedup over full verification", degree),
				"speedup (x)", func(r Result) float64 { return r.Speedup }),
			lineChart(sub, fmt.Sprintf("Falcon-%d: tiered throughput", degree),
				"signatures/s", func(r Result) float64 { return r.TieredThroughput }),
		)
	}
	return errors.Wrap(page.Render(w), "rendering chart")
}

func lineChart(results []Result, title string, yName string, value func(Result) float64) *charts.Line {
	fractions := distinctFloats(results)
	labels := make([]string, len(fractions))
	for i, f := range fractions {
		labels[i] = fmt.Sprintf("%.0f%%", 100*f)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "invalid fraction"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(labels)
	for _, k := range distinctInts(results, func(r Result) int { return r.Indices }) {
		data := make([]opts.LineData, len(fractions))
		for i, f := range fractions {
			data[i] = opts.LineData{Value: nil}
			for _, r := range results {
				if r.Indices == k && r.InvalidFraction == f {
					data[i] = opts.LineData{Value: value(r)}
				}
			}
		}
		line.AddSeries(fmt.Sprintf("%d indices", k), data)
	}
	return line
}

func distinctInts(results []Result, key func(Result) int) []int {
	seen := make(map[int]bool)
	var r []int
	for _, x := range results {
		if k := key(x); !seen[k] {
			seen[k] = true
			r = append(r, k)
		}
	}
	sort.Ints(r)
	return r
}

func distinctFloats(results []Result) []float64 {
	seen := make(map[float64]bool)
	var r []float64
	for _, x := range results {
		if !seen[x.InvalidFraction] {
			seen[x.InvalidFraction] = true
			r = append(r, x.InvalidFraction)
		}
	}
	sort.Float64s(r)
	return r
}
