package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// table is a rectangular export shared by the CSV and XLSX writers.
type table struct {
	Sheet  string
	Header []string
	Widths []float64
	Rows   [][]any
}

func exportFormat(r *http.Request) (string, bool) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "csv":
		return "csv", true
	case "xlsx", "excel":
		return "xlsx", true
	}
	return "", false
}

// writeExport streams t as an attachment named <name>_<suffix>.<ext>.
func writeExport(w http.ResponseWriter, format, name, suffix string, t table) {
	if suffix == "" {
		suffix = time.Now().Format("20060102_150405")
	}
	switch format {
	case "csv":
		data, err := exportCSV(t)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.csv\"", name, suffix))
		_, _ = w.Write(data)
	case "xlsx":
		data, err := exportXLSX(t)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"", name, suffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func csvValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func exportCSV(t table) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(t.Header)
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = csvValue(v)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// xlsxValue keeps money numeric so spreadsheets can sum it.
func xlsxValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	}
	return v
}

func exportXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	index, err := f.NewSheet(t.Sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(t.Sheet, cell, v)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(t.Sheet, cell, xlsxValue(v))
		}
	}
	for c, width := range t.Widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(t.Sheet, col, col, width)
	}

	if len(t.Header) > 0 {
		style, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#7C3AED"}, Pattern: 1},
		})
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		_ = f.SetCellStyle(t.Sheet, "A1", last, style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
