// Package format renders numbers the way the dashboard shows them.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/internal/models"
)

var printer = message.NewPrinter(language.Korean)

// Thousands formats n with grouping separators: 1234567 -> "1,234,567".
func Thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

func Won(n int64) string {
	return "₩" + Thousands(n)
}

func People(n int64) string {
	return Thousands(n) + "명"
}

func Percent(p float64) string {
	return printer.Sprintf("%.2f%%", p)
}

func Rate(r float64) string {
	return printer.Sprintf("%.3f", r)
}

// Metric is one headline card.
type Metric struct {
	ID    string
	Label string
	Value string
}

func Metrics(h models.Headline) []Metric {
	return []Metric{
		{ID: "metric-revenue", Label: "📈 총 매출", Value: Won(h.TotalRevenue)},
		{ID: "metric-visitors", Label: "👥 총 방문자", Value: People(h.TotalVisitors)},
		{ID: "metric-conversion", Label: "🔁 평균 전환율", Value: Percent(h.AvgConversionPct)},
	}
}
