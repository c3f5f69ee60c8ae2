package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/models"
)

const DefaultPreviewRows = 100

var ErrInvalidDate = errors.New("invalid date")

// Dashboard holds the generation inputs and derives every view on demand.
// The dataset is regenerated whenever the calendar day changes.
type Dashboard struct {
	seed        uint64
	loc         *time.Location
	now         func() time.Time
	previewRows int
	logger      *slog.Logger

	mu      sync.RWMutex
	dataset models.Dataset
	day     int

	generations atomic.Int64
	views       atomic.Int64
}

type Option func(*Dashboard)

func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) { d.loc = loc }
}

func WithPreviewRows(n int) Option {
	return func(d *Dashboard) { d.previewRows = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

func NewDashboard(seed uint64, opts ...Option) *Dashboard {
	d := &Dashboard{
		seed:        seed,
		loc:         time.Local,
		now:         time.Now,
		previewRows: DefaultPreviewRows,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) Seed() uint64 {
	return d.seed
}

// Dataset returns the tables for the current day.
func (d *Dashboard) Dataset() models.Dataset {
	today := d.now().In(d.loc)
	key := dayKey(today)

	d.mu.RLock()
	if d.day == key && d.dataset.Sales != nil {
		ds := d.dataset
		d.mu.RUnlock()
		return ds
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.day != key || d.dataset.Sales == nil {
		start := time.Now()
		d.dataset = Generate(d.seed, today)
		d.day = key
		d.generations.Add(1)
		d.logger.Info("generated dataset",
			"seed", d.seed,
			"span_start", d.dataset.Start.Format(models.DateLayout),
			"span_end", d.dataset.End.Format(models.DateLayout),
			"sales_rows", len(d.dataset.Sales),
			"category_rows", len(d.dataset.Categories),
			"duration", time.Since(start),
		)
	}
	return d.dataset
}

// View runs filter then aggregation for one render. Headline metrics and the
// regional totals always use the full table.
func (d *Dashboard) View(f models.Filter) models.View {
	ds := d.Dataset()
	filtered := ApplyFilter(ds.Sales, f)
	d.views.Add(1)

	preview := filtered
	if len(preview) > d.previewRows {
		preview = preview[:d.previewRows]
	}

	return models.View{
		Headline:      Headlines(ds.Sales),
		Filter:        f,
		Daily:         DailyTotals(filtered),
		Regions:       RegionTotals(ds.Sales),
		Categories:    CategoryTotals(ds.Categories),
		Preview:       preview,
		FilteredCount: len(filtered),
		SpanStart:     ds.Start,
		SpanEnd:       ds.End,
	}
}

// Records returns every row matching f, for exports.
func (d *Dashboard) Records(f models.Filter) []models.SalesRecord {
	return ApplyFilter(d.Dataset().Sales, f)
}

// ParseFilter builds a filter from request values. Empty dates fall back to the
// span bounds; an empty region means all regions.
func (d *Dashboard) ParseFilter(region, start, end string) (models.Filter, error) {
	f := DefaultFilter(d.Dataset())

	if region = strings.TrimSpace(region); region != "" && !strings.EqualFold(region, "all") {
		f.Region = region
	}

	if start = strings.TrimSpace(start); start != "" {
		t, err := time.ParseInLocation(models.DateLayout, start, d.loc)
		if err != nil {
			return models.Filter{}, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
		}
		f.Start = t
	}

	if end = strings.TrimSpace(end); end != "" {
		t, err := time.ParseInLocation(models.DateLayout, end, d.loc)
		if err != nil {
			return models.Filter{}, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
		}
		f.End = t
	}

	return f, nil
}

// FilterFromOffsets maps slider positions, counted in days from the first
// generated date, to a filter.
func (d *Dashboard) FilterFromOffsets(region string, from, to int) models.Filter {
	ds := d.Dataset()
	f := DefaultFilter(ds)
	if region != "" {
		f.Region = region
	}
	f.Start = ds.Start.AddDate(0, 0, from)
	f.End = ds.Start.AddDate(0, 0, to)
	return f
}

// Offsets is the inverse of FilterFromOffsets.
func (d *Dashboard) Offsets(f models.Filter) (from, to int) {
	ds := d.Dataset()
	return daysBetween(ds.Start, f.Start), daysBetween(ds.Start, f.End)
}

func (d *Dashboard) Options() models.Options {
	ds := d.Dataset()
	regions := make([]string, 0, len(models.Regions)+1)
	regions = append(regions, models.AllRegions)
	regions = append(regions, models.Regions...)

	return models.Options{
		Regions:   regions,
		SpanStart: ds.Start.Format(models.DateLayout),
		SpanEnd:   ds.End.Format(models.DateLayout),
		SpanDays:  daysBetween(ds.Start, ds.End) + 1,
	}
}

func (d *Dashboard) Stats() map[string]any {
	ds := d.Dataset()
	return map[string]any{
		"seed":          d.seed,
		"sales_rows":    len(ds.Sales),
		"category_rows": len(ds.Categories),
		"span_start":    ds.Start.Format(models.DateLayout),
		"span_end":      ds.End.Format(models.DateLayout),
		"generated_at":  ds.GeneratedAt,
		"generations":   d.generations.Load(),
		"views":         d.views.Load(),
	}
}

func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
