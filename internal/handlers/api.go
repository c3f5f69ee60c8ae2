package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const noStore = "no-store"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
	chartSize charts.Size
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger, chartSize charts.Size) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
		chartSize: chartSize,
	}
}

// filterFromRequest reads the region, start and end query parameters.
func filterFromRequest(d *services.Dashboard, r *http.Request) (models.Filter, error) {
	q := r.URL.Query()
	f, err := d.ParseFilter(q.Get("region"), q.Get("start"), q.Get("end"))
	if err != nil {
		return models.Filter{}, errors.BadRequestWrap(err, "invalid filter").
			WithDetails("start and end must use the YYYY-MM-DD format")
	}
	return f, nil
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, r, h.logger, err)
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	headline := services.Headlines(h.dashboard.Dataset().Sales)

	cards := format.Metrics(headline)
	formatted := make(map[string]string, len(cards))
	for _, c := range cards {
		formatted[c.ID] = c.Value
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"headline":  headline,
		"formatted": formatted,
	}, map[string]string{"Cache-Control": noStore})
}

func (h *APIHandlers) HandleDaily(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromRequest(h.dashboard, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := services.DailyTotals(h.dashboard.Records(f))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": noStore})
}

// HandleRegions always covers the whole table, whatever filter is active.
func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	data := services.RegionTotals(h.dashboard.Dataset().Sales)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": noStore})
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	data := services.CategoryTotals(h.dashboard.Dataset().Categories)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": noStore})
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromRequest(h.dashboard, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records := h.dashboard.Records(f)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.fail(w, r, errors.Validation("limit must be a non-negative integer"))
			return
		}
		if limit < len(records) {
			records = records[:limit]
		}
	}

	errors.WriteSuccessWithHeaders(w, records, map[string]string{"Cache-Control": noStore})
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Options())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

// HandleChart serves one of the dashboard charts as a PNG. An empty selection
// answers 204 so the page can show its own placeholder.
func (h *APIHandlers) HandleChart(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromRequest(h.dashboard, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		view := h.dashboard.View(f)

		var buf bytes.Buffer
		switch kind {
		case "daily":
			err = charts.Daily(&buf, view.Daily, h.chartSize)
		case "regions":
			err = charts.Regions(&buf, view.Regions, h.chartSize)
		case "categories":
			err = charts.Categories(&buf, view.Categories, h.chartSize)
		default:
			h.fail(w, r, errors.NotFound(fmt.Sprintf("unknown chart %q", kind)))
			return
		}

		if stderrors.Is(err, charts.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			h.fail(w, r, errors.InternalWrap(err, "chart rendering failed"))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", noStore)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := io.Copy(w, &buf); err != nil {
			h.logger.Warn("write chart", "chart", kind, "error", err)
		}
	}
}

// HandleExport streams the filtered rows as a download.
func (h *APIHandlers) HandleExport(exportFormat services.ExportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromRequest(h.dashboard, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := services.Export(&buf, exportFormat, h.dashboard.Records(f)); err != nil {
			h.fail(w, r, errors.InternalWrap(err, "export failed"))
			return
		}

		filename := fmt.Sprintf("sales_%s_%s.%s",
			f.Start.Format("20060102"), f.End.Format("20060102"), exportFormat)

		w.Header().Set("Content-Type", exportFormat.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := io.Copy(w, &buf); err != nil {
			h.logger.Warn("write export", "format", exportFormat, "error", err)
		}
	}
}
