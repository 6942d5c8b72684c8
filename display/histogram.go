// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package display

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveHistogram writes a bar chart of binned counts to path; the image
// format is chosen by the path's extension (e.g. ".png"). edges are the
// bin boundaries and must number len(counts)+1; bars are labeled by bin
// midpoint.
func SaveHistogram(title string, counts []int, edges []float64, path string) error {
	if len(edges) != len(counts)+1 {
		return fmt.Errorf("histogram: %d counts require %d edges, have %d",
			len(counts), len(counts)+1, len(edges))
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.Y.Label.Text = "count"
	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
		labels[i] = fmt.Sprintf("%.3g", (edges[i]+edges[i+1])/2)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
