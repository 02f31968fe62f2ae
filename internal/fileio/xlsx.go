package fileio

import (
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX читает все листы книги по порядку; headerRow применяется к
// каждому листу, строки склеиваются.
func readXLSX(r io.Reader, headerRow int) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	var out []map[string]string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		h := pickHeader(rows, headerRow)
		out = append(out, rowsToMaps(rows, h, headerRow)...)
	}
	return out, nil
}
