package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV reads a CSV with headerRow (1-based physical line), detecting the
// charset and the delimiter (',' ';' or tab) from the first 4 KiB.
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReaderSize(r, 4096)
	peek, _ := br.Peek(4096)

	var dec io.Reader = br
	if e := detectEncoding(peek); e != nil {
		dec = transform.NewReader(br, e.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.Comma = sniffDelimiter(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	// encoding/csv пропускает пустые строки; возвращаем их пустыми записями,
	// чтобы headerRow считал физические строки, как в xlsx/xls
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

// detectEncoding returns nil for UTF-8 (with or without BOM).
func detectEncoding(peek []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(peek, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	case bytes.HasPrefix(peek, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(peek, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}
	if len(peek) == 0 {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return nil
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1252", "iso-8859-1":
		return charmap.Windows1252
	case "windows-1251":
		return charmap.Windows1251
	case "iso-8859-2":
		return charmap.ISO8859_2
	default:
		return nil
	}
}

// sniffDelimiter picks the candidate that occurs most often in the first line.
func sniffDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
