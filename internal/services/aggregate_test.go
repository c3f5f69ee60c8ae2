package services

import (
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func sumRevenue(rows []models.SalesRecord) (revenue, visitors int64) {
	for _, r := range rows {
		revenue += r.Revenue
		visitors += r.Visitors
	}
	return revenue, visitors
}

func TestDailyTotals_MatchFilteredSums(t *testing.T) {
	ds := Generate(42, testToday)
	filters := []models.Filter{
		DefaultFilter(ds),
		{Region: "대구", Start: ds.Start.AddDate(0, 0, 10), End: ds.End},
	}

	for _, f := range filters {
		filtered := ApplyFilter(ds.Sales, f)
		daily := DailyTotals(filtered)

		var rev, vis int64
		for _, d := range daily {
			rev += d.Revenue
			vis += d.Visitors
		}
		wantRev, wantVis := sumRevenue(filtered)
		if rev != wantRev || vis != wantVis {
			t.Errorf("filter %+v: daily sums (%d, %d), want (%d, %d)", f, rev, vis, wantRev, wantVis)
		}

		for i := 1; i < len(daily); i++ {
			if !daily[i-1].Date.Before(daily[i].Date) {
				t.Errorf("daily totals not ascending at %d", i)
			}
		}
	}
}

func TestDailyTotals_SeoulFullSpan(t *testing.T) {
	ds := Generate(42, testToday)
	filtered := ApplyFilter(ds.Sales, models.Filter{Region: "서울", Start: ds.Start, End: ds.End})
	daily := DailyTotals(filtered)

	if len(daily) != 30 {
		t.Fatalf("daily rows = %d, want 30", len(daily))
	}

	seoul := make(map[string]int64)
	for _, row := range ds.Sales {
		if row.Region == "서울" {
			seoul[row.Date.Format(models.DateLayout)] = row.Revenue
		}
	}
	for _, d := range daily {
		if want := seoul[d.Date.Format(models.DateLayout)]; d.Revenue != want {
			t.Errorf("%s revenue = %d, want %d", d.Date.Format(models.DateLayout), d.Revenue, want)
		}
	}
}

func TestDailyTotals_SingleDay(t *testing.T) {
	ds := Generate(42, testToday)
	day := ds.Start.AddDate(0, 0, 17)
	daily := DailyTotals(ApplyFilter(ds.Sales, models.Filter{Start: day, End: day}))

	if len(daily) != 1 {
		t.Fatalf("daily rows = %d, want 1", len(daily))
	}
	if !daily[0].Date.Equal(day) {
		t.Errorf("date = %v, want %v", daily[0].Date, day)
	}

	if got := DailyTotals(nil); len(got) != 0 {
		t.Errorf("empty input should give no rows, got %d", len(got))
	}
}

func TestRegionTotals(t *testing.T) {
	ds := Generate(42, testToday)
	regions := RegionTotals(ds.Sales)

	if len(regions) != len(models.Regions) {
		t.Fatalf("regions = %d, want %d", len(regions), len(models.Regions))
	}

	var total int64
	for i, r := range regions {
		total += r.Revenue
		if i > 0 && regions[i-1].Region >= r.Region {
			t.Errorf("regions not ordered by name at %d", i)
		}
	}
	want, _ := sumRevenue(ds.Sales)
	if total != want {
		t.Errorf("regional total = %d, want unfiltered total %d", total, want)
	}
}

func TestCategoryTotals(t *testing.T) {
	ds := Generate(42, testToday)
	totals := CategoryTotals(ds.Categories)

	var sum, want int64
	for i, c := range totals {
		sum += c.Quantity
		if i > 0 && totals[i-1].Quantity < c.Quantity {
			t.Errorf("categories not descending at %d: %d < %d", i, totals[i-1].Quantity, c.Quantity)
		}
	}
	for _, s := range ds.Categories {
		want += s.Quantity
	}
	if sum != want {
		t.Errorf("category total = %d, want %d", sum, want)
	}
}

func TestCategoryTotals_Ties(t *testing.T) {
	sales := []models.CategorySale{
		{Category: "의류", Quantity: 50},
		{Category: "도서", Quantity: 30},
		{Category: "식품", Quantity: 20},
		{Category: "도서", Quantity: 20},
	}
	totals := CategoryTotals(sales)

	want := []models.CategoryTotal{
		{Category: "도서", Quantity: 50},
		{Category: "의류", Quantity: 50},
		{Category: "식품", Quantity: 20},
	}
	if len(totals) != len(want) {
		t.Fatalf("totals = %+v", totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
}

func TestHeadlines(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.SalesRecord{
		{Date: day, Region: "서울", Revenue: 1000, Visitors: 100, ConversionRate: 0.1},
		{Date: day, Region: "부산", Revenue: 2500, Visitors: 300, ConversionRate: 0.125},
		{Date: day, Region: "대구", Revenue: 4000, Visitors: 200, ConversionRate: 0.011},
	}

	h := Headlines(rows)
	if h.TotalRevenue != 7500 {
		t.Errorf("total revenue = %d, want 7500", h.TotalRevenue)
	}
	if h.TotalVisitors != 600 {
		t.Errorf("total visitors = %d, want 600", h.TotalVisitors)
	}
	// mean = 0.236 / 3 = 0.078666… -> 7.87%
	if h.AvgConversionPct != 7.87 {
		t.Errorf("avg conversion = %v, want 7.87", h.AvgConversionPct)
	}

	if zero := Headlines(nil); zero != (models.Headline{}) {
		t.Errorf("empty table should give zero headline, got %+v", zero)
	}
}
