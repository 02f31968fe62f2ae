package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	excelize "github.com/xuri/excelize/v2"
)

// ReportHeader is the column set of example_results.csv. The second column
// holds the competitor's manufacturer; it is named "competitor" as in the
// sample report, ReportColumns gives it another name
// (e.g. "competitor_manufacturer").
var ReportHeader = []string{"competitor_pn", "competitor", "product_category", "alternative_pn"}

// ReportColumns returns ReportHeader with the manufacturer column renamed;
// "" keeps the default.
func ReportColumns(manufacturerColumn string) []string {
	h := slices.Clone(ReportHeader)
	if c := strings.TrimSpace(manufacturerColumn); c != "" {
		h[1] = c
	}
	return h
}

func headerOrDefault(header []string) []string {
	if len(header) == 0 {
		return ReportHeader
	}
	return header
}

type ReportRow struct {
	CompetitorPN  string
	Competitor    string
	Category      string
	AlternativePN string // "" when nothing matched
}

func (r ReportRow) cells() []string {
	return []string{r.CompetitorPN, r.Competitor, r.Category, r.AlternativePN}
}

// WriteReportCSV пишет header (nil: ReportHeader) и строки отчёта.
func WriteReportCSV(w io.Writer, header []string, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerOrDefault(header)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteReportXLSX(w io.Writer, header []string, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(headerOrDefault(header))); err != nil {
		return err
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, toCells(r.cells())); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// WriteReport пишет отчёт по пути: ".xlsx" -> книга, иначе CSV.
// Путь "-" означает stdout.
func WriteReport(path string, header []string, rows []ReportRow) error {
	if path == "-" || path == "" {
		return WriteReportCSV(os.Stdout, header, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = WriteReportXLSX(f, header, rows)
	} else {
		err = WriteReportCSV(f, header, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	return nil
}
