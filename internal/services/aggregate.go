package services

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// DailyTotals sums revenue and visitors per date, oldest first.
func DailyTotals(rows []models.SalesRecord) []models.DailyTotal {
	groups := make(map[int]*models.DailyTotal)
	for _, row := range rows {
		key := dayKey(row.Date)
		if groups[key] == nil {
			groups[key] = &models.DailyTotal{Date: row.Date}
		}
		groups[key].Revenue += row.Revenue
		groups[key].Visitors += row.Visitors
	}

	result := make([]models.DailyTotal, 0, len(groups))
	for _, dt := range groups {
		result = append(result, *dt)
	}
	slices.SortFunc(result, func(a, b models.DailyTotal) int {
		return cmp.Compare(dayKey(a.Date), dayKey(b.Date))
	})
	return result
}

// RegionTotals sums revenue per region over the rows it is given, ordered by
// region name. The dashboard passes the unfiltered table here.
func RegionTotals(rows []models.SalesRecord) []models.RegionTotal {
	groups := make(map[string]int64)
	for _, row := range rows {
		groups[row.Region] += row.Revenue
	}

	result := make([]models.RegionTotal, 0, len(groups))
	for region, revenue := range groups {
		result = append(result, models.RegionTotal{Region: region, Revenue: revenue})
	}
	slices.SortFunc(result, func(a, b models.RegionTotal) int {
		return cmp.Compare(a.Region, b.Region)
	})
	return result
}

// CategoryTotals sums quantity per category, largest first. Ties fall back to
// category name so the order is stable across calls.
func CategoryTotals(sales []models.CategorySale) []models.CategoryTotal {
	groups := make(map[string]int64)
	for _, s := range sales {
		groups[s.Category] += s.Quantity
	}

	result := make([]models.CategoryTotal, 0, len(groups))
	for category, qty := range groups {
		result = append(result, models.CategoryTotal{Category: category, Quantity: qty})
	}
	slices.SortFunc(result, func(a, b models.CategoryTotal) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return result
}

// Headlines computes the filter-independent metric cards.
func Headlines(rows []models.SalesRecord) models.Headline {
	var h models.Headline
	if len(rows) == 0 {
		return h
	}

	conversionSum := decimal.Zero
	for _, row := range rows {
		h.TotalRevenue += row.Revenue
		h.TotalVisitors += row.Visitors
		conversionSum = conversionSum.Add(decimal.NewFromFloat(row.ConversionRate))
	}

	mean := conversionSum.Div(decimal.NewFromInt(int64(len(rows))))
	h.AvgConversionPct = mean.Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	return h
}
