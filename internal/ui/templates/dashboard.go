// Package templates holds the dashboard page and the fragments patched over SSE.
package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
)

// PageData is the input for a full page or any of its fragments.
type PageData struct {
	Title     string
	View      models.View
	Options   models.Options
	From      int
	To        int
	MaxOffset int
}

// Query returns the filter as URL query parameters.
func (p PageData) Query() string {
	q := url.Values{}
	if !p.View.Filter.AllRegions() {
		q.Set("region", p.View.Filter.Region)
	}
	q.Set("start", p.View.Filter.Start.Format(models.DateLayout))
	q.Set("end", p.View.Filter.End.Format(models.DateLayout))
	return q.Encode()
}

// Link appends the filter query to path, for chart and export links.
func (p PageData) Link(path string) template.URL {
	return template.URL(path + "?" + p.Query())
}

func (p PageData) Signals() string {
	region := p.View.Filter.Region
	if region == "" {
		region = models.AllRegions
	}
	b, _ := json.Marshal(map[string]any{
		"region": region,
		"from":   p.From,
		"to":     p.To,
	})
	return string(b)
}

var funcs = template.FuncMap{
	"metrics":     format.Metrics,
	"won":         format.Won,
	"thousands":   format.Thousands,
	"rate":        format.Rate,
	"regionColor": func(r string) string { return "#" + charts.RegionColor(r) },
	"date":        func(t time.Time) string { return t.Format(models.DateLayout) },

	"categoryColor": func(c string) string { return "#" + charts.CategoryColor(c) },
	"revenueColor":  func() string { return "#" + charts.RevenueColor },
	"visitorsColor": func() string { return "#" + charts.VisitorsColor },
	"share":         categoryShare,
}

// categoryShare is quantity's share of all quantities in categories.
func categoryShare(quantity int64, categories []models.CategoryTotal) string {
	var total int64
	for _, c := range categories {
		total += c.Quantity
	}
	return charts.Share(quantity, total)
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>📊 {{.Title}}</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6fa;color:#2d3436}
.layout{display:grid;grid-template-columns:260px 1fr;min-height:100vh}
aside{background:#fff;padding:1.5rem;border-right:1px solid #dfe6e9}
main{padding:1.5rem 2rem}
h1{color:#6c5ce7}
.metrics{display:grid;grid-template-columns:repeat(3,1fr);gap:1rem}
.metric{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.metric .value{font-size:1.8rem;font-weight:600}
.chart img{max-width:100%}
.legend span{display:inline-block;margin-right:.75rem}
.legend i{display:inline-block;width:.8rem;height:.8rem;margin-right:.25rem;border-radius:2px}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{padding:.35rem .6rem;border-bottom:1px solid #dfe6e9;text-align:right}
th:nth-child(-n+2),td:nth-child(-n+2){text-align:left}
footer{text-align:center;padding:1rem;color:#636e72}
</style>
</head>
<body data-signals="{{.Signals}}">
<div class="layout">
<aside>
<h2>🔍 필터</h2>
<label for="region">지역 선택</label>
<select id="region" data-bind-region data-on-change="@get('/sse/dashboard')">
{{range .Options.Regions}}<option value="{{.}}"{{if eq . $.View.Filter.Region}} selected{{end}}>{{.}}</option>
{{end}}</select>
<p>날짜 범위 선택</p>
<input id="range-from" type="range" min="0" max="{{.MaxOffset}}" value="{{.From}}" data-bind-from data-on-change="@get('/sse/dashboard')">
<input id="range-to" type="range" min="0" max="{{.MaxOffset}}" value="{{.To}}" data-bind-to data-on-change="@get('/sse/dashboard')">
{{template "range-label" .}}
</aside>
<main>
<h1>💼 {{.Title}}</h1>
{{template "metrics" .}}
<hr>
{{template "charts" .}}
<details>
<summary>🔎 원본 데이터 보기</summary>
{{template "preview" .}}
</details>
<hr>
<footer>🚀 Go로 만든 비즈니스 대시보드 | ⓒ 2025</footer>
</main>
</div>
</body>
</html>
{{define "range-label"}}<p id="range-label">{{date .View.Filter.Start}} ~ {{date .View.Filter.End}}</p>{{end}}
{{define "metrics"}}<section id="metrics" class="metrics">
{{range metrics .View.Headline}}<div class="metric" id="{{.ID}}"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</section>{{end}}
{{define "charts"}}<section id="charts">
<h3>📊 날짜별 매출 &amp; 방문자 추이</h3>
<div class="chart">{{if .View.Daily}}<img alt="일자별 추이" src="{{.Link "/charts/daily.png"}}">
<div class="legend"><span><i style="background: {{revenueColor}}"></i>매출 (왼쪽 축)</span><span><i style="background: {{visitorsColor}}"></i>방문자 (오른쪽 축)</span></div>{{else}}<p class="empty">선택한 범위에 데이터가 없습니다.</p>{{end}}</div>
<h3>📍 지역별 총 매출</h3>
<div class="chart"><img alt="지역별 매출 분포" src="/charts/regions.png">
<div class="legend">{{range .View.Regions}}<span><i style="background: {{regionColor .Region}}"></i>{{.Region}} {{won .Revenue}}</span>{{end}}</div></div>
<h3>🛍️ 카테고리별 판매량</h3>
<div class="chart"><img alt="판매 비율" src="/charts/categories.png">
<div class="legend">{{$all := .View.Categories}}{{range $all}}<span><i style="background: {{categoryColor .Category}}"></i>{{.Category}} {{thousands .Quantity}}개 ({{share .Quantity $all}})</span>{{end}}</div></div>
</section>{{end}}
{{define "preview"}}<section id="preview">
<p>{{.View.FilteredCount}}행 중 {{len .View.Preview}}행 표시</p>
<p><a href="{{.Link "/export/records.csv"}}">CSV</a> · <a href="{{.Link "/export/records.xlsx"}}">XLSX</a> · <a href="{{.Link "/export/records.parquet"}}">Parquet</a></p>
<table>
<thead><tr><th>날짜</th><th>지역</th><th>매출</th><th>방문자</th><th>전환율</th></tr></thead>
<tbody>
{{range .View.Preview}}<tr><td>{{date .Date}}</td><td>{{.Region}}</td><td>{{thousands .Revenue}}</td><td>{{thousands .Visitors}}</td><td>{{rate .ConversionRate}}</td></tr>
{{end}}</tbody>
</table>
</section>{{end}}
`))

func component(name string, data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplate.ExecuteTemplate(w, name, data)
	})
}

// Dashboard is the full page.
func Dashboard(data PageData) templ.Component {
	return component("page", data)
}

func Metrics(data PageData) templ.Component {
	return component("metrics", data)
}

func Charts(data PageData) templ.Component {
	return component("charts", data)
}

func Preview(data PageData) templ.Component {
	return component("preview", data)
}

func RangeLabel(data PageData) templ.Component {
	return component("range-label", data)
}
