// Парсер .xls: ширину таблицы фиксируем сами и читаем все ячейки до неё,
// Row.LastCol() у старых книг врёт.
package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
)

// computeMaxCols пробегает разумное число колонок и ищет непустые.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 256
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := probeMax - 1; j >= maxCols; j-- {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
				break
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// BOM-выгрузки из западных ERP: cp1252 чаще всего, иногда UTF-8
	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"windows-1252", "utf-8"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	var out []map[string]string
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		out = append(out, readXLSSheet(sheet, headerRow)...)
	}
	return out, nil
}

func readXLSSheet(sheet *xls.WorkSheet, headerRow int) []map[string]string {
	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}

	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow)
}
