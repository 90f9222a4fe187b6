package main

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// savePlot draws each stroke as its own line on the unit square. Image y
// grows downward, so it is flipped to keep letters upright.
func savePlot(strokes [][]stroke.Point, path string) error {
	p := plot.New()
	p.Title.Text = "Replayed strokes"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	for i, st := range strokes {
		if len(st) < 2 {
			continue
		}
		pts := make(plotter.XYs, len(st))
		for j, pt := range st {
			pts[j] = plotter.XY{X: pt.X, Y: 1 - pt.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		line.Width = vg.Points(2)
		line.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
		p.Add(line)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
