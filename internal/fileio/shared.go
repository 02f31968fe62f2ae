package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"xref-service/internal/xref/model"
)

// ReadBOM открывает файл BOM с диска. Отсутствующий/нечитаемый файл ->
// model.ErrInputNotFound.
func ReadBOM(path string, headerRow int) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	if st, err := f.Stat(); err == nil && st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", model.ErrInputNotFound, path)
	}
	return ReadAnyMaps(f, path, headerRow)
}

// ReadAnyMaps выбирает парсер по расширению и возвращает строки как срез
// map[header]value. headerRow: номер строки заголовков (1-based).
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		headerRow = 1
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFile, filename)
	}
}

// pickHeader берёт строку заголовков и подставляет "Column N" для пустых и
// "Name (2)" для повторов, чтобы значения не затирали друг друга.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	if len(rows) == 0 {
		return nil
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\uFEFF"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps конвертирует AoA в []map по заголовкам, пропуская полностью
// пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = normalizeCell(rec[c])
			}
			if v != "" {
				empty = false
			}
			m[h] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// normalizeCell: NBSP -> пробел, обрезка краёв.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\r", "").Replace(s)
	return strings.TrimSpace(s)
}
