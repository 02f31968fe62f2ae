package normalize

import (
	"fmt"

	"xref-service/internal/xref/model"
)

// DefaultManufacturer is the vendor whose dump the catalog is built from.
const DefaultManufacturer = "Würth Elektronik"

// Catalog converts vendor dump records into components. The kind comes from
// the dump file, never from the record.
type Catalog struct {
	Manufacturer string
}

func NewCatalog(manufacturer string) Catalog {
	if manufacturer == "" {
		manufacturer = DefaultManufacturer
	}
	return Catalog{Manufacturer: manufacturer}
}

// Normalize fails with ErrMissingIdentifier when the record has no order
// code, ErrUnparsableRecord when a value cannot be decoded and
// ErrUnknownKind for KindUnknown. Missing optional fields are not errors.
func (c Catalog) Normalize(rec Record, kind model.Kind) (model.Component, error) {
	if kind == model.KindUnknown {
		return model.Component{}, model.ErrUnknownKind
	}
	code := rec.text(keyOrderCode)
	if code == "" {
		return model.Component{}, model.ErrMissingIdentifier
	}
	attrs, err := decodeAttributes(kind, rec)
	if err != nil {
		return model.Component{}, err
	}
	comp, err := model.New(rec.text(keyID), code, c.Manufacturer, rec.text(keyURL), attrs)
	if err != nil {
		return model.Component{}, fmt.Errorf("catalog %s: %w", code, err)
	}
	return comp, nil
}
