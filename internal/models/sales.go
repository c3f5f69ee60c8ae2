package models

import "time"

// AllRegions is the region selector value that disables the region predicate.
const AllRegions = "전체"

const DateLayout = "2006-01-02"

var (
	Regions    = []string{"서울", "부산", "대구", "광주", "대전"}
	Categories = []string{"전자제품", "의류", "식품", "가전", "도서"}
)

type SalesRecord struct {
	Date           time.Time `json:"date"`
	Region         string    `json:"region"`
	Revenue        int64     `json:"revenue"`
	Visitors       int64     `json:"visitors"`
	ConversionRate float64   `json:"conversion_rate"`
}

type CategorySale struct {
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

// Dataset is one generation pass. Both tables are read-only once built.
type Dataset struct {
	Sales       []SalesRecord  `json:"sales"`
	Categories  []CategorySale `json:"categories"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Seed        uint64         `json:"seed"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type Filter struct {
	Region string    `json:"region"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (f Filter) AllRegions() bool {
	return f.Region == "" || f.Region == AllRegions
}

type DailyTotal struct {
	Date     time.Time `json:"date"`
	Revenue  int64     `json:"revenue"`
	Visitors int64     `json:"visitors"`
}

type RegionTotal struct {
	Region  string `json:"region"`
	Revenue int64  `json:"revenue"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

type Headline struct {
	TotalRevenue     int64   `json:"total_revenue"`
	TotalVisitors    int64   `json:"total_visitors"`
	AvgConversionPct float64 `json:"avg_conversion_pct"`
}

// View holds everything a single render needs.
type View struct {
	Headline      Headline        `json:"headline"`
	Filter        Filter          `json:"filter"`
	Daily         []DailyTotal    `json:"daily"`
	Regions       []RegionTotal   `json:"regions"`
	Categories    []CategoryTotal `json:"categories"`
	Preview       []SalesRecord   `json:"preview"`
	FilteredCount int             `json:"filtered_count"`
	SpanStart     time.Time       `json:"span_start"`
	SpanEnd       time.Time       `json:"span_end"`
}

type Options struct {
	Regions   []string `json:"regions"`
	SpanStart string   `json:"span_start"`
	SpanEnd   string   `json:"span_end"`
	SpanDays  int      `json:"span_days"`
}
