package views

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"helmet-analyzer/models"
)

const sectionsTitle = "Sensor Data Variation per Section (All Trials)"

// RenderSectionsChart stacks one sub-plot per section, each overlaying every
// trial's FSR series against sample index, and writes the figure as a PNG.
func RenderSectionsChart(w io.Writer, sections []models.Section, batches map[models.Section][]models.TrialBatch) error {
	if len(sections) == 0 {
		return errors.New("sections chart: nothing to plot")
	}

	maxTrials := 0
	for _, s := range sections {
		maxTrials = max(maxTrials, len(batches[s]))
	}
	colors, err := trialColors(maxTrials)
	if err != nil {
		return err
	}

	plots := make([][]*plot.Plot, len(sections))
	for i, s := range sections {
		p := plot.New()
		p.Title.Text = s.Label()
		p.Y.Label.Text = "FSR Value"
		p.Legend.Top = true
		p.Add(plotter.NewGrid())

		for j, b := range batches[s] {
			series := b.FSRSeries()
			pts := make(plotter.XYs, len(series))
			for k, v := range series {
				pts[k].X, pts[k].Y = float64(k), v
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("sections chart %q trial %s: %w", s.Label(), b.Trial, err)
			}
			l.Color = colors[j%len(colors)]
			l.Width = vg.Points(1.2)
			p.Add(l)
			p.Legend.Add(b.Trial+" - FSR", l)
		}
		if i == len(sections)-1 {
			p.X.Label.Text = "Sample Index"
		}
		plots[i] = []*plot.Plot{p}
	}

	rowHeight := 10 * vg.Inch / 3
	img := vgimg.New(10*vg.Inch, vg.Length(len(sections))*rowHeight+vg.Inch/2)
	dc := draw.New(img)

	title := plot.New().Title.TextStyle
	title.Font.Size = vg.Points(14)
	title.XAlign = draw.XCenter
	title.YAlign = draw.YTop
	dc.FillText(title, vg.Point{X: dc.Center().X, Y: dc.Max.Y - 2*vg.Millimeter}, sectionsTitle)

	tiles := draw.Tiles{
		Rows:      len(sections),
		Cols:      1,
		PadTop:    vg.Inch / 2,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
		PadY:      6 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("sections chart: encode png: %w", err)
	}
	return nil
}

// trialColors returns a qualitative palette with at least n distinct colours
// where the palette allows; callers wrap around beyond that.
func trialColors(n int) ([]color.Color, error) {
	k := min(max(n, 3), 9)
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", k)
	if err != nil {
		return nil, fmt.Errorf("trial palette: %w", err)
	}
	return pal.Colors(), nil
}
