package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// dashboardSignals mirrors the client-side control state.
type dashboardSignals struct {
	Region string `json:"region"`
	From   *int   `json:"from"`
	To     *int   `json:"to"`
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
	title     string
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger, title string) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
		title:     title,
	}
}

// pageData resolves a filter into everything the templates need.
func pageData(d *services.Dashboard, title string, f models.Filter) templates.PageData {
	opts := d.Options()
	from, to := d.Offsets(f)
	return templates.PageData{
		Title:     title,
		View:      d.View(f),
		Options:   opts,
		From:      from,
		To:        to,
		MaxOffset: opts.SpanDays - 1,
	}
}

// filterFromSignals clamps the slider offsets to the generated span and keeps
// them ordered, the same constraints a dual-ended slider enforces.
func (h *SSEHandlers) filterFromSignals(s dashboardSignals) models.Filter {
	maxOffset := h.dashboard.Options().SpanDays - 1

	from, to := 0, maxOffset
	if s.From != nil {
		from = clamp(*s.From, 0, maxOffset)
	}
	if s.To != nil {
		to = clamp(*s.To, 0, maxOffset)
	}
	if from > to {
		from, to = to, from
	}

	return h.dashboard.FilterFromOffsets(strings.TrimSpace(s.Region), from, to)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// HandleDashboard re-runs filter, aggregation and rendering for the current
// control values and patches every dependent fragment.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		// A partial decode is not a selection; fall back to the default filter.
		h.logger.Warn("read signals, using default filter", "error", err)
		signals = dashboardSignals{}
	}

	f := h.filterFromSignals(signals)
	data := pageData(h.dashboard, h.title, f)

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	fragments := make([]string, 0, 4)
	for _, c := range []templ.Component{
		templates.Metrics(data),
		templates.Charts(data),
		templates.Preview(data),
		templates.RangeLabel(data),
	} {
		html, err := renderString(ctx, c)
		if err != nil {
			h.logger.Error("render fragment", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		fragments = append(fragments, html)
	}

	normalized, err := json.Marshal(map[string]any{
		"region":        data.View.Filter.Region,
		"from":          data.From,
		"to":            data.To,
		"filteredCount": data.View.FilteredCount,
	})
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err)
			return
		}
	}
	if err := sse.PatchSignals(normalized); err != nil {
		h.logger.Warn("patch signals", "error", err)
		return
	}

	h.logger.Debug("dashboard patched",
		"region", data.View.Filter.Region,
		"start", data.View.Filter.Start.Format(models.DateLayout),
		"end", data.View.Filter.End.Format(models.DateLayout),
		"rows", data.View.FilteredCount,
	)
}

// HandlePage renders the initial page with the default filter.
func (h *SSEHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	f := services.DefaultFilter(h.dashboard.Dataset())
	data := pageData(h.dashboard, h.title, f)

	html, err := renderString(ctx, templates.Dashboard(data))
	if err != nil {
		h.logger.Error("render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", noStore)
	_, _ = w.Write([]byte(html))
}
