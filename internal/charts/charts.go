// Package charts renders the dashboard charts as PNG images.
//
// The default go-chart font only covers Latin glyphs, so everything drawn
// into an image is digits, dates or ASCII. Region, category and series names
// are shown by the HTML legends next to each image, matched by colour.
package charts

import (
	"errors"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
)

var ErrNoData = errors.New("no data to chart")

const (
	DefaultWidth  = 900
	DefaultHeight = 400
)

// Line colours (without '#') of the daily chart.
const (
	RevenueColor  = "6c5ce7"
	VisitorsColor = "00b894"
)

const fallbackColor = "636e72"

// Region bar colours, indexed by position in models.Regions.
var regionColors = []string{"6c5ce7", "00b894", "0984e3", "fdcb6e", "e17055"}

// Slice colours for the category donut, indexed by position in
// models.Categories.
var sliceColors = []string{"8e44ad", "2980b9", "27ae60", "f1c40f", "e67e22", "e74c3c"}

type Size struct {
	Width  int
	Height int
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Daily draws revenue and visitors per date. Visitors use the secondary axis.
func Daily(w io.Writer, daily []models.DailyTotal, size Size) error {
	if len(daily) == 0 {
		return ErrNoData
	}
	graph := dailyChart(daily, size.orDefault())
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render daily chart: %w", err)
	}
	return nil
}

func dailyChart(daily []models.DailyTotal, size Size) chart.Chart {
	dates := make([]time.Time, len(daily))
	revenue := make([]float64, len(daily))
	visitors := make([]float64, len(daily))
	for i, d := range daily {
		dates[i] = d.Date
		revenue[i] = float64(d.Revenue)
		visitors[i] = float64(d.Visitors)
	}

	graph := chart.Chart{
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: thousands,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "revenue",
				XValues: dates,
				YValues: revenue,
				Style:   lineStyle(drawing.ColorFromHex(RevenueColor)),
			},
			chart.TimeSeries{
				Name:    "visitors",
				XValues: dates,
				YValues: visitors,
				YAxis:   chart.YAxisSecondary,
				Style:   lineStyle(drawing.ColorFromHex(VisitorsColor)),
			},
		},
	}

	// A single day has no x or y extent of its own. Widen the axes around
	// the one point rather than adding points outside the selection.
	if len(daily) == 1 {
		day := dates[0]
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(day.Add(-12 * time.Hour)),
			Max: chart.TimeToFloat64(day.Add(12 * time.Hour)),
		}
		graph.YAxis.Range = zeroBased(revenue[0] * 2)
		graph.YAxisSecondary.Range = zeroBased(visitors[0] * 2)
	}
	return graph
}

// Regions draws one bar per region on a zero-based axis, labelled with the
// revenue.
func Regions(w io.Writer, regions []models.RegionTotal, size Size) error {
	if len(regions) == 0 {
		return ErrNoData
	}
	graph := regionsChart(regions, size.orDefault())
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render region chart: %w", err)
	}
	return nil
}

func regionsChart(regions []models.RegionTotal, size Size) chart.BarChart {
	var maxRevenue float64
	bars := make([]chart.Value, len(regions))
	for i, r := range regions {
		color := drawing.ColorFromHex(RegionColor(r.Region))
		bars[i] = chart.Value{
			Label: format.Thousands(r.Revenue),
			Value: float64(r.Revenue),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
		maxRevenue = max(maxRevenue, float64(r.Revenue))
	}

	return chart.BarChart{
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   size.Width / (len(bars) * 3),
		BarSpacing: size.Width / (len(bars) * 4),
		Background: chart.Style{Padding: chart.Box{Top: 24}},
		YAxis: chart.YAxis{
			Range:          zeroBased(maxRevenue * 1.1),
			ValueFormatter: thousands,
		},
		Bars: bars,
	}
}

// Categories draws the category share as a donut with percentage labels.
func Categories(w io.Writer, categories []models.CategoryTotal, size Size) error {
	if len(categories) == 0 {
		return ErrNoData
	}
	graph := categoriesChart(categories, size.orDefault())
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}

func categoriesChart(categories []models.CategoryTotal, size Size) chart.DonutChart {
	var total int64
	for _, c := range categories {
		total += c.Quantity
	}

	values := make([]chart.Value, len(categories))
	for i, c := range categories {
		color := drawing.ColorFromHex(CategoryColor(c.Category))
		values[i] = chart.Value{
			Label: Share(c.Quantity, total),
			Value: float64(c.Quantity),
			Style: chart.Style{FillColor: color},
		}
	}

	return chart.DonutChart{
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
}

// Share formats part as a percentage of total with one decimal.
func Share(part, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// RegionColor returns the hex colour (without '#') used for a region.
func RegionColor(region string) string {
	return colorOf(models.Regions, regionColors, region)
}

// CategoryColor returns the hex colour (without '#') of a category's slice.
func CategoryColor(category string) string {
	return colorOf(models.Categories, sliceColors, category)
}

func colorOf(names, palette []string, name string) string {
	for i, n := range names {
		if n == name {
			return palette[i%len(palette)]
		}
	}
	return fallbackColor
}

func thousands(v any) string {
	if f, ok := v.(float64); ok {
		return format.Thousands(int64(f))
	}
	return ""
}

func zeroBased(top float64) *chart.ContinuousRange {
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top}
}

func lineStyle(color drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: color,
		StrokeWidth: 2,
		DotColor:    color,
		DotWidth:    3,
	}
}
