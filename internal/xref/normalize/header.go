package normalize

import (
	"regexp"
	"sort"
	"strings"
)

var rxNonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, служебные символы -> пробел,
// схлопываем пробелы
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s) // NBSP/NNBSP
	s = rxNonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey ищет реальный ключ строки по желаемому имени колонки.
// want поддерживает альтернативы через "|" ("Part Number|MPN|Part No").
// Порядок: точное совпадение, точное после нормализации, затем самое
// длинное вхождение альтернативы целыми словами. others: алиасы соседних
// колонок; ключ, в котором чужой алиас стоит правее ("Vendor Part Number"
// для Manufacturer), частичным совпадением не берётся. Ключи перебираются
// в отсортированном порядке, чтобы результат не зависел от порядка map.
func resolveKey(rec map[string]string, want string, others ...string) string {
	alts := splitAlts(want)
	if len(alts) == 0 {
		return ""
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nAlts := normAlts(alts)

	// точное по нормализованному, в порядке приоритета альтернатив
	for _, n := range nAlts {
		for _, k := range keys {
			if normHeaderKey(k) == n {
				return k
			}
		}
	}

	var nOthers []string
	for _, o := range others {
		nOthers = append(nOthers, normAlts(splitAlts(o))...)
	}

	// частичное: want ⊂ key целыми словами, и want стоит правее чужих алиасов
	bestKey, bestScore := "", 0
	for _, k := range keys {
		nk := normHeaderKey(k)
		if nk == "" {
			continue
		}
		end, size := lastWordMatch(nk, nAlts)
		if end < 0 {
			continue
		}
		if oEnd, oSize := lastWordMatch(nk, nOthers); oEnd > end || (oEnd == end && oSize > size) {
			continue
		}
		if size > bestScore {
			bestScore, bestKey = size, k
		}
	}
	return bestKey
}

func splitAlts(want string) []string {
	var out []string
	for _, a := range strings.Split(want, "|") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func normAlts(alts []string) []string {
	out := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// lastWordMatch возвращает конец самого правого вхождения любой из
// альтернатив в nk целыми словами и длину этой альтернативы; -1, если нет.
func lastWordMatch(nk string, nAlts []string) (end, size int) {
	end = -1
	padded := " " + nk + " "
	for _, n := range nAlts {
		i := strings.LastIndex(padded, " "+n+" ")
		if i < 0 {
			continue
		}
		if e := i + len(n); e > end || (e == end && len(n) > size) {
			end, size = e, len(n)
		}
	}
	return end, size
}
