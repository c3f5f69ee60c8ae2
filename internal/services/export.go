package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

type ExportFormat string

const (
	FormatCSV     ExportFormat = "csv"
	FormatXLSX    ExportFormat = "xlsx"
	FormatParquet ExportFormat = "parquet"
)

const exportSheet = "sales"

var exportHeader = []string{"날짜", "지역", "매출", "방문자", "전환율"}

// exportRow is the flat on-disk shape of a SalesRecord.
type exportRow struct {
	Date           string  `parquet:"date"`
	Region         string  `parquet:"region"`
	Revenue        int64   `parquet:"revenue"`
	Visitors       int64   `parquet:"visitors"`
	ConversionRate float64 `parquet:"conversion_rate"`
}

func toExportRows(rows []models.SalesRecord) []exportRow {
	out := make([]exportRow, len(rows))
	for i, r := range rows {
		out[i] = exportRow{
			Date:           r.Date.Format(models.DateLayout),
			Region:         r.Region,
			Revenue:        r.Revenue,
			Visitors:       r.Visitors,
			ConversionRate: r.ConversionRate,
		}
	}
	return out
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Export writes rows to w in the given format.
func Export(w io.Writer, format ExportFormat, rows []models.SalesRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatParquet:
		return WriteParquet(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func WriteCSV(w io.Writer, rows []models.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range toExportRows(rows) {
		record := []string{
			r.Date,
			r.Region,
			strconv.FormatInt(r.Revenue, 10),
			strconv.FormatInt(r.Visitors, 10),
			strconv.FormatFloat(r.ConversionRate, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []models.SalesRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6C5CE7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range toExportRows(rows) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Date, r.Region, r.Revenue, r.Visitors, r.ConversionRate}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "E", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func WriteParquet(w io.Writer, rows []models.SalesRecord) error {
	writer := parquet.NewGenericWriter[exportRow](w)
	if _, err := writer.Write(toExportRows(rows)); err != nil {
		writer.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
