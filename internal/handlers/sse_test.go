package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func sseRequest(signals string) *http.Request {
	target := "/sse/dashboard"
	if signals != "" {
		target += "?datastar=" + url.QueryEscape(signals)
	}
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestNewSSEHandlers(t *testing.T) {
	dashboard := createTestDashboard()
	logger := testLogger()

	handlers := NewSSEHandlers(dashboard, logger, "비즈니스 대시보드")
	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.dashboard != dashboard {
		t.Error("NewSSEHandlers() should set dashboard field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_filterFromSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "test")
	ptr := func(v int) *int { return &v }

	tests := []struct {
		name      string
		signals   dashboardSignals
		wantStart string
		wantEnd   string
		wantAll   bool
	}{
		{"missing offsets", dashboardSignals{}, "2024-02-15", "2024-03-15", true},
		{"window", dashboardSignals{Region: "서울", From: ptr(5), To: ptr(12)}, "2024-02-20", "2024-02-27", false},
		{"clamped", dashboardSignals{From: ptr(-4), To: ptr(99)}, "2024-02-15", "2024-03-15", true},
		{"swapped", dashboardSignals{Region: "전체", From: ptr(20), To: ptr(10)}, "2024-02-25", "2024-03-06", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := handlers.filterFromSignals(tt.signals)
			if got := f.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := f.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if f.AllRegions() != tt.wantAll {
				t.Errorf("AllRegions() = %v, want %v", f.AllRegions(), tt.wantAll)
			}
		})
	}
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(`{"region":"부산","from":0,"to":6}`))

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected content-type 'text/event-stream', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cc)
	}

	body := w.Body.String()
	expectedContent := []string{
		"datastar-patch-elements",
		"datastar-patch-signals",
		`id="metrics"`,
		`id="charts"`,
		`id="preview"`,
		`id="range-label"`,
		"2024-02-15 ~ 2024-02-21",
		"7행 중 7행 표시",
		`"filteredCount":7`,
		`"region":"부산"`,
	}
	for _, content := range expectedContent {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleDashboard_NoSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(""))

	body := w.Body.String()
	if !strings.Contains(body, "150행 중 100행 표시") {
		t.Error("default view should cover every row with a capped preview")
	}
	if !strings.Contains(body, `"filteredCount":150`) {
		t.Error("expected normalized signals for the default filter")
	}
}

func TestSSEHandlers_HandleDashboard_MalformedSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "test")

	tests := []struct {
		name    string
		signals string
	}{
		{"string offsets", `{"region":"서울","from":"5","to":"6"}`},
		{"string region", `{"region":7,"from":5,"to":6}`},
		{"truncated json", `{"region":"서울","from":5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleDashboard(w, sseRequest(tt.signals))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			body := w.Body.String()
			expectedContent := []string{
				"2024-02-15 ~ 2024-03-15",
				"150행 중 100행 표시",
				`"filteredCount":150,"from":0`,
				`"to":29`,
			}
			for _, content := range expectedContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected default filter output to contain %q", content)
				}
			}
		})
	}
}

func TestSSEHandlers_HandleDashboard_EmptySelection(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(`{"region":"제주"}`))

	body := w.Body.String()
	if !strings.Contains(body, "선택한 범위에 데이터가 없습니다.") {
		t.Error("expected the empty chart placeholder")
	}
	if !strings.Contains(body, `"filteredCount":0`) {
		t.Error("expected zero filtered rows")
	}
}

func TestSSEHandlers_HandlePage(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(), testLogger(), "비즈니스 대시보드")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handlers.HandlePage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected content-type 'text/html; charset=utf-8', got %q", ct)
	}

	body := w.Body.String()
	expectedContent := []string{
		"<!DOCTYPE html>",
		"비즈니스 대시보드",
		`data-on-change="@get('/sse/dashboard')"`,
		`id="metric-revenue"`,
		`id="metric-visitors"`,
		`id="metric-conversion"`,
		`src="/charts/regions.png"`,
		"<footer>",
	}
	for _, content := range expectedContent {
		if !strings.Contains(body, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}
