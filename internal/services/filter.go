package services

import (
	"time"

	"sales-dashboard/internal/models"
)

// DefaultFilter selects every region over the whole generated span.
func DefaultFilter(ds models.Dataset) models.Filter {
	return models.Filter{
		Region: models.AllRegions,
		Start:  ds.Start,
		End:    ds.End,
	}
}

// ApplyFilter returns the rows matching the region and the inclusive date range.
// Unknown regions and ranges outside the data give an empty result.
func ApplyFilter(rows []models.SalesRecord, f models.Filter) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(rows))
	for _, row := range rows {
		if !f.AllRegions() && row.Region != f.Region {
			continue
		}
		if !inRange(row.Date, f.Start, f.End) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// inRange compares calendar days, ignoring clock time and zone offsets.
func inRange(date, start, end time.Time) bool {
	d := dayKey(date)
	return d >= dayKey(start) && d <= dayKey(end)
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
