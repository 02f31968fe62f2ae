package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxNumTail = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)(.*)$`)

// RKM-код: "4k7", "4R7", "2M2", "4u7".
var rxRKM = regexp.MustCompile(`^(\d+)([RrkKMmuµμnp])(\d+)$`)

var spaceRepl = strings.NewReplacer(" ", "", "\u00A0", "", "\u2009", "", "\u202F", "", "\t", "")

var siPrefix = map[string]float64{
	"p": 1e-12, "n": 1e-9, "u": 1e-6, "µ": 1e-6, "μ": 1e-6, "m": 1e-3,
	"k": 1e3, "K": 1e3, "M": 1e6, "G": 1e9,
}

// Единицы, после которых приставка считается приставкой. "m" (метр) сюда не
// входит: "2.2mm" это 2.2 мм, а не 2.2e-3.
var siUnits = map[string]bool{
	"": true, "ohm": true, "ohms": true, "ω": true, "r": true,
	"f": true, "h": true, "a": true, "v": true, "w": true, "hz": true,
}

// ParseNumber парсит значения из выгрузок поставщика: "0,25", "1 000",
// "1.234,5", "1,234.5", "10 Ohm", "4.7 kOhm", "4k7". Приставка СИ
// применяется. Пустое/мусор -> (0, false).
//
// Одиночная запятая всегда десятичный разделитель: "1,000" -> 1.
func ParseNumber(s string) (float64, bool) {
	v, _, ok := ParseQuantity(s)
	return v, ok
}

// ParseQuantity как ParseNumber, но сообщает, была ли явная приставка СИ
// (prefixed): тогда значение уже в базовых единицах.
func ParseQuantity(s string) (v float64, prefixed, ok bool) {
	s = spaceRepl.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false, false
	}
	if m := rxRKM.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1]+"."+m[3], 64)
		if err != nil {
			return 0, false, false
		}
		if mult, ok := siPrefix[m[2]]; ok {
			return f * mult, true, true
		}
		return f, false, true // R
	}

	// и точка, и запятая: последний из них десятичный разделитель
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	m := rxNumTail.FindStringSubmatch(s)
	if m == nil {
		return 0, false, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	if mult, unit, ok := splitPrefix(m[2]); ok && siUnits[strings.ToLower(unit)] {
		return f * mult, true, true
	}
	return f, false, true
}

// splitPrefix отделяет приставку СИ от единицы: "kOhm" -> 1e3, "Ohm".
func splitPrefix(tail string) (float64, string, bool) {
	for p, mult := range siPrefix {
		if rest, ok := strings.CutPrefix(tail, p); ok {
			return mult, rest, true
		}
	}
	return 0, "", false
}
