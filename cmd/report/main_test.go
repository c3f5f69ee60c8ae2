package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testView(t *testing.T, region string) models.View {
	t.Helper()
	d := services.NewDashboard(42,
		services.WithClock(fixedNow),
		services.WithLocation(time.UTC),
		services.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	f, err := d.ParseFilter(region, "", "")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	return d.View(f)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DASHBOARD_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd(fixedNow)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, "비즈니스 대시보드", testView(t, "서울"), 120); err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}
	out := buf.String()

	expectedContent := []string{
		"비즈니스 대시보드",
		"지역: 서울 | 기간: 2024-02-15 ~ 2024-03-15 | 30행",
		"총 매출",
		"총 방문자",
		"평균 전환율",
		"2024-02-15",
		"2024-03-15",
		"부산",
		"카테고리",
		"█",
	}
	for _, content := range expectedContent {
		if !strings.Contains(out, content) {
			t.Errorf("expected report to contain %q", content)
		}
	}
}

func TestRenderReport_EmptySelection(t *testing.T) {
	var buf bytes.Buffer
	if err := renderReport(&buf, "test", testView(t, "제주"), 80); err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "선택한 범위에 데이터가 없습니다.") {
		t.Error("expected the empty selection notice")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		v, maxV int64
		cells   int
		want    int
	}{
		{100, 100, 10, 10},
		{50, 100, 10, 5},
		{1, 100, 10, 1},
		{0, 100, 10, 0},
		{10, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := len([]rune(bar(tt.v, tt.maxV, tt.cells))); got != tt.want {
			t.Errorf("bar(%d, %d, %d) width = %d, want %d", tt.v, tt.maxV, tt.cells, got, tt.want)
		}
	}
}

func TestReportCommand(t *testing.T) {
	out, err := execute(t, "--region", "대구", "--start", "2024-03-10", "--width", "100")
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	if !strings.Contains(out, "지역: 대구 | 기간: 2024-03-10 ~ 2024-03-15 | 6행") {
		t.Errorf("unexpected filter line in:\n%s", out)
	}
}

func TestReportCommand_BadDate(t *testing.T) {
	if _, err := execute(t, "--end", "15/03/2024"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestReportCommand_EmptyTimezone(t *testing.T) {
	if _, err := execute(t, "--timezone", ""); err == nil {
		t.Error("expected an error for an empty timezone")
	}
}

func TestExportCommand(t *testing.T) {
	out, err := execute(t, "export", "--region", "광주", "--start", "2024-03-01", "--end", "2024-03-05")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 6 {
		t.Errorf("csv lines = %d, want header plus 5 rows", len(records))
	}
}

func TestExportCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.parquet")
	if _, err := execute(t, "export", "--format", "parquet", "-o", path); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PAR1")) || !bytes.HasSuffix(data, []byte("PAR1")) {
		t.Error("output is not a parquet file")
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	if _, err := execute(t, "export", "--format", "pdf"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
