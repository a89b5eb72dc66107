package images

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// Plot layout constants. The canvas roughly matches a 10x6 inch figure
// at 100 dpi so the artifacts are easy to eyeball next to older runs.
const (
	plotWidth    = 1000
	plotHeight   = 600
	plotMarginX  = 80
	plotMarginY  = 60
	plotTickSize = 6
)

var (
	plotBackground = color.RGBA{R: 255, G: 255, B: 255}
	plotAxisColor  = color.RGBA{R: 40, G: 40, B: 40}
	plotGridColor  = color.RGBA{R: 220, G: 220, B: 220}
	plotLineColor  = color.RGBA{B: 255}
	plotDotColor   = color.RGBA{R: 255}
)

// Curve is a labeled series of values rendered by PlotCurve.
type Curve struct {
	Title  string
	YLabel string
	// Labels names each sample point; len(Labels) must equal len(Values).
	Labels []string
	Values []float64
}

// PlotCurve renders the curve as a simple line chart with point markers
// and writes it to path as a PNG. It is a diagnostic artifact only and
// never affects a verdict.
func PlotCurve(c Curve, path string) error {
	if len(c.Values) == 0 {
		return fmt.Errorf("plot %q: no values", c.Title)
	}
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("plot %q: %d labels for %d values", c.Title, len(c.Labels), len(c.Values))
	}

	canvas := gocv.NewMatWithSize(plotHeight, plotWidth, gocv.MatTypeCV8UC3)
	defer canvas.Close()
	gocv.Rectangle(&canvas, image.Rect(0, 0, plotWidth, plotHeight), plotBackground, -1)

	minV, maxV := c.Values[0], c.Values[0]
	for _, v := range c.Values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	// Pad the value range so flat curves still render mid-chart.
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	minV -= span * 0.1
	maxV += span * 0.1
	span = maxV - minV

	innerW := plotWidth - 2*plotMarginX
	innerH := plotHeight - 2*plotMarginY

	toPoint := func(i int, v float64) image.Point {
		x := plotMarginX
		if len(c.Values) > 1 {
			x += i * innerW / (len(c.Values) - 1)
		}
		y := plotHeight - plotMarginY - int((v-minV)/span*float64(innerH))
		return image.Pt(x, y)
	}

	// Horizontal grid lines with value ticks.
	for tick := 0; tick <= 4; tick++ {
		v := minV + span*float64(tick)/4
		p := toPoint(0, v)
		gocv.Line(&canvas, image.Pt(plotMarginX, p.Y), image.Pt(plotWidth-plotMarginX, p.Y), plotGridColor, 1)
		gocv.PutText(&canvas, fmt.Sprintf("%.0f", v), image.Pt(plotMarginX-45, p.Y+4),
			gocv.FontHersheyPlain, 1, plotAxisColor, 1)
	}

	// Axes.
	gocv.Line(&canvas, image.Pt(plotMarginX, plotMarginY), image.Pt(plotMarginX, plotHeight-plotMarginY), plotAxisColor, 1)
	gocv.Line(&canvas, image.Pt(plotMarginX, plotHeight-plotMarginY),
		image.Pt(plotWidth-plotMarginX, plotHeight-plotMarginY), plotAxisColor, 1)

	// Series line plus point markers.
	for i, v := range c.Values {
		p := toPoint(i, v)
		if i > 0 {
			prev := toPoint(i-1, c.Values[i-1])
			gocv.Line(&canvas, prev, p, plotLineColor, 2)
		}
		gocv.Circle(&canvas, p, 4, plotDotColor, -1)
		gocv.Line(&canvas, image.Pt(p.X, plotHeight-plotMarginY),
			image.Pt(p.X, plotHeight-plotMarginY+plotTickSize), plotAxisColor, 1)
		gocv.PutText(&canvas, c.Labels[i], image.Pt(p.X-20, plotHeight-plotMarginY+25),
			gocv.FontHersheyPlain, 0.9, plotAxisColor, 1)
	}

	gocv.PutText(&canvas, c.Title, image.Pt(plotMarginX, plotMarginY-20),
		gocv.FontHersheyPlain, 1.5, plotAxisColor, 1)
	gocv.PutText(&canvas, c.YLabel, image.Pt(10, plotMarginY-20),
		gocv.FontHersheyPlain, 1, plotAxisColor, 1)

	if ok := gocv.IMWrite(path, canvas); !ok {
		return fmt.Errorf("plot %q: writing %s failed", c.Title, path)
	}
	return nil
}
