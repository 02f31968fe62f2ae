package normalize

import (
	"strings"

	"xref-service/internal/xref/model"
)

// BOM column names with accepted aliases.
const (
	ColType         = "Type|Category|Component Type"
	ColPartNumber   = "Part Number|MPN|Part No|Manufacturer Part Number|PN"
	ColManufacturer = "Manufacturer|Mfr|Manufacturer Name|Vendor"
)

// BOMRow is a normalized customer row before it becomes a component.
// Label keeps the raw "Type" cell for logs.
type BOMRow struct {
	Label        string
	Kind         model.Kind
	OrderCode    string
	Manufacturer string
}

// ParseBOMRow extracts identity and kind from one spreadsheet row.
// Unknown kind -> ErrUnknownKind; missing part number or manufacturer ->
// ErrMissingIdentifier. Both are recoverable: the caller drops the row.
func ParseBOMRow(rec map[string]string) (BOMRow, error) {
	row := BOMRow{
		Label:        cell(rec, ColType),
		OrderCode:    cell(rec, ColPartNumber),
		Manufacturer: cell(rec, ColManufacturer),
	}
	row.Kind = KindFromLabel(row.Label)
	if row.Kind == model.KindUnknown {
		return row, model.ErrUnknownKind
	}
	if row.OrderCode == "" || row.Manufacturer == "" {
		return row, model.ErrMissingIdentifier
	}
	return row, nil
}

// Component turns the row into a competitor part. patch is the enrichment
// result for the order code and may be nil; without it every attribute is
// absent.
func (r BOMRow) Component(patch Record) (model.Component, error) {
	attrs, err := decodeAttributes(r.Kind, patch)
	if err != nil {
		return model.Component{}, err
	}
	return model.New("", r.OrderCode, r.Manufacturer, patch.text(keyURL), attrs)
}

var bomColumns = []string{ColType, ColPartNumber, ColManufacturer}

// cell resolves want against the row keys; the other BOM columns compete
// for partial matches, so "Vendor Part Number" never reads as a vendor.
func cell(rec map[string]string, want string) string {
	others := make([]string, 0, len(bomColumns)-1)
	for _, c := range bomColumns {
		if c != want {
			others = append(others, c)
		}
	}
	k := resolveKey(rec, want, others...)
	if k == "" {
		return ""
	}
	return strings.TrimSpace(rec[k])
}
