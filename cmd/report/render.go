package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
)

const (
	defaultWidth = 100
	minWidth     = 60
	cardWidth    = 28
)

var (
	accent = lipgloss.Color("#6C5CE7")
	muted  = lipgloss.Color("#7f849c")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1).Width(cardWidth)
	valueStyle   = lipgloss.NewStyle().Bold(true)
)

// renderReport writes the headline cards and the daily, regional and
// category breakdowns of view, laid out for a terminal of the given width.
func renderReport(w io.Writer, title string, view models.View, width int) error {
	width = max(width, minWidth)

	var sections []string
	sections = append(sections,
		titleStyle.Width(width).Render("💼 "+title),
		mutedStyle.Render(filterLine(view)),
		metricCards(view.Headline, width),
	)

	sections = append(sections, headingStyle.Render("📊 날짜별 매출 & 방문자 추이"))
	if len(view.Daily) == 0 {
		sections = append(sections, mutedStyle.Render("선택한 범위에 데이터가 없습니다."))
	} else {
		sections = append(sections, dailyTable(view.Daily, width))
	}

	sections = append(sections,
		headingStyle.Render("📍 지역별 총 매출"),
		regionTable(view.Regions, width),
		headingStyle.Render("🛍️ 카테고리별 판매량"),
		categoryTable(view.Categories),
	)

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func filterLine(view models.View) string {
	region := view.Filter.Region
	if view.Filter.AllRegions() {
		region = models.AllRegions
	}
	return fmt.Sprintf("지역: %s | 기간: %s ~ %s | %s행",
		region,
		view.Filter.Start.Format(models.DateLayout),
		view.Filter.End.Format(models.DateLayout),
		format.Thousands(int64(view.FilteredCount)),
	)
}

func metricCards(h models.Headline, width int) string {
	var cards []string
	for _, m := range format.Metrics(h) {
		cards = append(cards, cardStyle.Render(m.Label+"\n"+valueStyle.Render(m.Value)))
	}
	// Borders and padding add four columns per card.
	if width < len(cards)*(cardWidth+4) {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(accent)
			}
			return s
		})
}

// bar scales v against maxV into at most cells block characters.
func bar(v, maxV int64, cells int) string {
	if maxV <= 0 || cells <= 0 || v <= 0 {
		return ""
	}
	n := int(v * int64(cells) / maxV)
	return strings.Repeat("█", max(n, 1))
}

func dailyTable(daily []models.DailyTotal, width int) string {
	var maxRevenue int64
	for _, d := range daily {
		maxRevenue = max(maxRevenue, d.Revenue)
	}
	// Date, revenue and visitor columns plus borders take roughly 45 cells.
	cells := max(width-45, 5)

	t := newTable("날짜", "매출", "방문자", "")
	for _, d := range daily {
		t.Row(
			d.Date.Format(models.DateLayout),
			format.Won(d.Revenue),
			format.People(d.Visitors),
			lipgloss.NewStyle().Foreground(accent).Render(bar(d.Revenue, maxRevenue, cells)),
		)
	}
	return t.String()
}

func regionTable(regions []models.RegionTotal, width int) string {
	var maxRevenue int64
	for _, r := range regions {
		maxRevenue = max(maxRevenue, r.Revenue)
	}
	cells := max(width-40, 5)

	t := newTable("지역", "총 매출", "")
	for _, r := range regions {
		color := lipgloss.Color("#" + charts.RegionColor(r.Region))
		t.Row(
			r.Region,
			format.Won(r.Revenue),
			lipgloss.NewStyle().Foreground(color).Render(bar(r.Revenue, maxRevenue, cells)),
		)
	}
	return t.String()
}

func categoryTable(categories []models.CategoryTotal) string {
	var total int64
	for _, c := range categories {
		total += c.Quantity
	}

	t := newTable("카테고리", "판매량", "비율")
	for _, c := range categories {
		share := 0.0
		if total > 0 {
			share = float64(c.Quantity) / float64(total) * 100
		}
		t.Row(c.Category, format.Thousands(c.Quantity), format.Percent(share))
	}
	return t.String()
}
