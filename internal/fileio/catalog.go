package fileio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xref-service/internal/xref/model"
)

// CatalogEntry is one element of a vendor dump array.
type CatalogEntry struct {
	Index  int // 1-based position in the file
	Fields map[string]any
	Err    error
}

// CatalogFiles lists the *.json dumps in dir in lexical order, so the
// catalog is always built in the same order.
func CatalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: catalog dir %s", model.ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("catalog dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ReadCatalogFile decodes one dump. A file that is not a JSON array even
// after cleanup is an error for the whole file; a bad element only marks its
// own entry. null elements are dropped.
func ReadCatalogFile(path string) ([]CatalogEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeCatalog(b)
}

func decodeCatalog(b []byte) ([]CatalogEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// дампы поставщика бывают с сырыми переводами строк и одиночными '\'
		if err2 := json.Unmarshal(cleanDump(b), &raw); err2 != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnparsableRecord, err)
		}
	}
	out := make([]CatalogEntry, 0, len(raw))
	for i, m := range raw {
		if bytes.Equal(bytes.TrimSpace(m), []byte("null")) {
			continue
		}
		e := CatalogEntry{Index: i + 1}
		if err := json.Unmarshal(m, &e.Fields); err != nil {
			e.Err = fmt.Errorf("%w: %v", model.ErrUnparsableRecord, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// cleanDump убирает CR/LF/TAB и экранирует '\', за которым не идёт
// допустимая JSON-escape последовательность.
func cleanDump(b []byte) []byte {
	out := make([]byte, 0, len(b)+16)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '\r', '\n', '\t':
			continue
		case '\\':
			if i+1 < len(b) && isEscape(b[i+1]) {
				out = append(out, c, b[i+1])
				i++
				continue
			}
			out = append(out, '\\', '\\')
			continue
		}
		out = append(out, c)
	}
	return out
}

func isEscape(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}
