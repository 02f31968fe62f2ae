// Package normalize converts raw vendor catalog records and customer BOM rows
// into model.Component values.
package normalize

import (
	"path/filepath"
	"strings"

	"xref-service/internal/xref/model"
)

// KindFromLabel infers the kind from a free-text BOM "Type" cell.
// Order matters: "res" wins over "cap" in labels like "Resistor cap-array".
func KindFromLabel(label string) model.Kind {
	s := strings.ToLower(label)
	switch {
	case strings.Contains(s, "res"):
		return model.KindResistor
	case strings.Contains(s, "ind") || strings.Contains(s, "choke"):
		return model.KindInductor
	case strings.Contains(s, "cap"):
		return model.KindCapacitor
	default:
		return model.KindUnknown
	}
}

// KindFromFilename maps a catalog dump file to the kind it declares.
func KindFromFilename(name string) model.Kind {
	s := strings.ToLower(filepath.Base(name))
	switch {
	case strings.Contains(s, "resistor"):
		return model.KindResistor
	case strings.Contains(s, "inductor"):
		return model.KindInductor
	case strings.Contains(s, "capacitor"):
		return model.KindCapacitor
	default:
		return model.KindUnknown
	}
}
