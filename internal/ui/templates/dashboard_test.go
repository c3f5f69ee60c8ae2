package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/models"
)

func testPageData() PageData {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return PageData{
		Title: "비즈니스 대시보드",
		View: models.View{
			Headline: models.Headline{TotalRevenue: 1234567, TotalVisitors: 8900, AvgConversionPct: 10.5},
			Filter:   models.Filter{Region: "서울", Start: day(1), End: day(2)},
			Daily: []models.DailyTotal{
				{Date: day(1), Revenue: 5000, Visitors: 300},
				{Date: day(2), Revenue: 7000, Visitors: 400},
			},
			Regions: []models.RegionTotal{{Region: "서울", Revenue: 12000}},
			Categories: []models.CategoryTotal{
				{Category: "의류", Quantity: 300},
				{Category: "도서", Quantity: 100},
			},
			Preview: []models.SalesRecord{
				{Date: day(1), Region: "서울", Revenue: 5000, Visitors: 300, ConversionRate: 0.125},
			},
			FilteredCount: 2,
		},
		Options:   models.Options{Regions: []string{models.AllRegions, "서울", "부산"}, SpanDays: 30},
		From:      3,
		To:        4,
		MaxOffset: 29,
	}
}

func render(t *testing.T, name string, data PageData) string {
	t.Helper()
	var sb strings.Builder
	var err error
	switch name {
	case "page":
		err = Dashboard(data).Render(context.Background(), &sb)
	case "metrics":
		err = Metrics(data).Render(context.Background(), &sb)
	case "charts":
		err = Charts(data).Render(context.Background(), &sb)
	case "preview":
		err = Preview(data).Render(context.Background(), &sb)
	case "range-label":
		err = RangeLabel(data).Render(context.Background(), &sb)
	}
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return sb.String()
}

func TestPageData_Query(t *testing.T) {
	data := testPageData()
	if got := data.Query(); got != "end=2024-03-02&region=%EC%84%9C%EC%9A%B8&start=2024-03-01" {
		t.Errorf("Query() = %q", got)
	}

	data.View.Filter.Region = models.AllRegions
	if got := data.Query(); strings.Contains(got, "region") {
		t.Errorf("all regions should not add a region parameter: %q", got)
	}
}

func TestPageData_Signals(t *testing.T) {
	data := testPageData()
	if got := data.Signals(); got != `{"from":3,"region":"서울","to":4}` {
		t.Errorf("Signals() = %s", got)
	}

	data.View.Filter.Region = ""
	if !strings.Contains(data.Signals(), models.AllRegions) {
		t.Error("empty region should be reported as all regions")
	}
}

func TestDashboard(t *testing.T) {
	html := render(t, "page", testPageData())

	expectedContent := []string{
		"<title>📊 비즈니스 대시보드</title>",
		`<option value="서울" selected>`,
		`max="29"`,
		`value="3"`,
		`id="metric-revenue"`,
		`id="charts"`,
		`<details>`,
		`id="preview"`,
		`id="range-label"`,
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected page to contain %q", content)
		}
	}
}

func TestMetrics(t *testing.T) {
	html := render(t, "metrics", testPageData())

	for _, content := range []string{"₩1,234,567", "8,900명", "10.50%"} {
		if !strings.Contains(html, content) {
			t.Errorf("expected metrics to contain %q", content)
		}
	}
}

func TestCharts(t *testing.T) {
	data := testPageData()
	html := render(t, "charts", data)

	if !strings.Contains(html, "/charts/daily.png?end=2024-03-02&amp;region=") {
		t.Errorf("daily chart should carry the filter query:\n%s", html)
	}
	if want := "background: #" + charts.RegionColor("서울"); !strings.Contains(html, want) {
		t.Errorf("expected legend swatch %q", want)
	}

	expectedContent := []string{
		"background: #" + charts.RevenueColor,
		"background: #" + charts.VisitorsColor,
		"매출 (왼쪽 축)",
		"방문자 (오른쪽 축)",
		"background: #" + charts.CategoryColor("의류"),
		"의류 300개 (75.0%)",
		"background: #" + charts.CategoryColor("도서"),
		"도서 100개 (25.0%)",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected chart legends to contain %q", content)
		}
	}

	data.View.Daily = nil
	if html := render(t, "charts", data); !strings.Contains(html, "선택한 범위에 데이터가 없습니다.") {
		t.Error("empty selection should show the placeholder")
	}
}

func TestPreview(t *testing.T) {
	html := render(t, "preview", testPageData())

	expectedContent := []string{
		"2행 중 1행 표시",
		"<td>2024-03-01</td>",
		"<td>5,000</td>",
		"<td>0.125</td>",
		"/export/records.xlsx?",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected preview to contain %q", content)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	if got := render(t, "range-label", testPageData()); got != `<p id="range-label">2024-03-01 ~ 2024-03-02</p>` {
		t.Errorf("RangeLabel = %q", got)
	}
}
