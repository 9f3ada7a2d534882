package views

import (
	"errors"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"helmet-analyzer/models"
)

const averagesTitle = "Average Sensor Readings Across Helmet Conditions"

// lineStyle draws a line with point markers on every section.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

// RenderAveragesChart draws one line per metric across the sections, in the
// order given, as a PNG.
func RenderAveragesChart(w io.Writer, avgs []models.SectionAverage) error {
	if len(avgs) == 0 {
		return errors.New("averages chart: nothing to plot")
	}

	n := len(avgs)
	xs := make([]float64, n)
	fsr := make([]float64, n)
	touch := make([]float64, n)
	buckle := make([]float64, n)
	ticks := make([]chart.Tick, n)
	yMax := 0.0
	for i, a := range avgs {
		xs[i] = float64(i)
		fsr[i], touch[i], buckle[i] = a.FSRAvg, a.HelmetTouchAvg, a.BuckleAvg
		ticks[i] = chart.Tick{Value: float64(i), Label: a.Section.Label()}
		yMax = max(yMax, a.FSRAvg, a.HelmetTouchAvg, a.BuckleAvg)
	}
	if yMax == 0 {
		yMax = 1
	}

	ch := chart.Chart{
		Title:      averagesTitle,
		Width:      1000,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 24, Right: 48, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  "Helmet Condition Section",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.25, Max: float64(n-1) + 0.25},
		},
		YAxis: chart.YAxis{
			Name:  "Average Sensor Value",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "FSR Value (Pressure)", XValues: xs, YValues: fsr, Style: lineStyle(chart.ColorBlue)},
			chart.ContinuousSeries{Name: "Helmet Detection", XValues: xs, YValues: touch, Style: lineStyle(chart.ColorOrange)},
			chart.ContinuousSeries{Name: "Buckle Detection", XValues: xs, YValues: buckle, Style: lineStyle(chart.ColorGreen)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}
