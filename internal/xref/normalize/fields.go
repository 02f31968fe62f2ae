package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"xref-service/internal/utils"
	"xref-service/internal/xref/model"
)

// Record is one flat vendor record: a catalog dump entry or an enrichment result.
type Record map[string]any

// Vendor field names. Units in the key are the vendor's; conversion to
// canonical units happens in the field tables below and nowhere else.
const (
	keyID           = "Id"
	keyOrderCode    = "Order_Code"
	keyURL          = "Url"
	keyMount        = "Mount"
	keySeries       = "Product_Series"
	keyFamily       = "Product_Family"
	keyLength       = "Length"
	keyWidth        = "Width"
	keyHeight       = "Height"
	keyResistance   = "Resistance (Ohm)"
	keyRatedPower   = "Rated_Power (W)"
	keyRatedCurrent = "Rated_Current (A)"
	keyInductance   = "Inductance (µH)"
	keyDCResistance = "DC_Resistance (Ohm)"
	keySatCurrent   = "Saturation_Current (A)"
	keySRF          = "Self_Resonant_Frequency (MHz)"
	keyCapacitance  = "Capacitance (µF)"
	keyRatedVoltage = "Rated_Voltage (V)"
	keyRipple       = "Ripple_Current (A)"
	keyLeakage      = "Leakage_Current (µA)"
	keyImpedance    = "Impedance (Ohm)"
	keyDissipation  = "Dissipation_Factor"
	keyLifeCycles   = "Life_Cycles"
	keyTemperature  = "Operating_Temperature"
)

const (
	micro = 1e-6
	mega  = 1e6
)

type numField[T any] struct {
	key   string
	scale float64
	set   func(*T, float64)
}

type textField[T any] struct {
	key string
	set func(*T, string)
}

type fieldTable[T model.Attributes] struct {
	nums  []numField[T]
	texts []textField[T]
}

// Per-kind mapping. Vendor dimensions are positional: Width is the
// inductor diameter and the capacitor pitch, Height is the capacitor diameter.
var (
	resistorFields = fieldTable[model.Resistor]{
		nums: []numField[model.Resistor]{
			{keyResistance, 1, func(r *model.Resistor, v float64) { r.Resistance = v }},
			{keyRatedPower, 1, func(r *model.Resistor, v float64) { r.RatedPower = v }},
			{keyRatedCurrent, 1, func(r *model.Resistor, v float64) { r.RatedCurrent = v }},
			{keyLength, 1, func(r *model.Resistor, v float64) { r.Length = v }},
			{keyWidth, 1, func(r *model.Resistor, v float64) { r.Width = v }},
			{keyHeight, 1, func(r *model.Resistor, v float64) { r.Height = v }},
		},
		texts: []textField[model.Resistor]{
			{keyMount, func(r *model.Resistor, s string) { r.Mount = model.ParseMount(s) }},
			{keySeries, func(r *model.Resistor, s string) { r.Series = s }},
		},
	}

	inductorFields = fieldTable[model.Inductor]{
		nums: []numField[model.Inductor]{
			{keyInductance, micro, func(i *model.Inductor, v float64) { i.Inductance = v }},
			{keyRatedCurrent, 1, func(i *model.Inductor, v float64) { i.RatedCurrent = v }},
			{keySatCurrent, 1, func(i *model.Inductor, v float64) { i.SaturationCurrent = v }},
			{keyDCResistance, 1, func(i *model.Inductor, v float64) { i.DCResistance = v }},
			{keySRF, mega, func(i *model.Inductor, v float64) { i.SelfResonantFrequency = v }},
			{keyLength, 1, func(i *model.Inductor, v float64) { i.Length = v }},
			{keyHeight, 1, func(i *model.Inductor, v float64) { i.Height = v }},
			{keyWidth, 1, func(i *model.Inductor, v float64) { i.Diameter = v }},
		},
		texts: []textField[model.Inductor]{
			{keyMount, func(i *model.Inductor, s string) { i.Mount = model.ParseMount(s) }},
			{keySeries, func(i *model.Inductor, s string) { i.Series = s }},
		},
	}

	capacitorFields = fieldTable[model.Capacitor]{
		nums: []numField[model.Capacitor]{
			{keyRatedVoltage, 1, func(c *model.Capacitor, v float64) { c.RatedVoltage = v }},
			{keyLifeCycles, 1, func(c *model.Capacitor, v float64) { c.LifeCycles = int(v) }},
			{keyDissipation, 1, func(c *model.Capacitor, v float64) { c.DissipationFactor = v }},
			{keyRipple, 1, func(c *model.Capacitor, v float64) { c.RippleCurrent = v }},
			{keyCapacitance, micro, func(c *model.Capacitor, v float64) { c.Capacitance = v }},
			{keyLength, 1, func(c *model.Capacitor, v float64) { c.Length = v }},
			{keyWidth, 1, func(c *model.Capacitor, v float64) { c.Pitch = v }},
			{keyHeight, 1, func(c *model.Capacitor, v float64) { c.Diameter = v }},
			{keyLeakage, micro, func(c *model.Capacitor, v float64) { c.LeakageCurrent = v }},
			{keyImpedance, 1, func(c *model.Capacitor, v float64) { c.Impedance = v }},
		},
		texts: []textField[model.Capacitor]{
			{keyTemperature, func(c *model.Capacitor, s string) { c.OperatingTemperatureRange = s }},
			{keyMount, func(c *model.Capacitor, s string) { c.Mount = model.ParseMount(s) }},
			{keyFamily, func(c *model.Capacitor, s string) { c.Family = s }},
		},
	}
)

// decodeAttributes builds the attribute record for kind. A nil record gives
// the all-absent attributes of that kind.
func decodeAttributes(kind model.Kind, rec Record) (model.Attributes, error) {
	switch kind {
	case model.KindResistor:
		return decodeWith(resistorFields, rec)
	case model.KindInductor:
		return decodeWith(inductorFields, rec)
	case model.KindCapacitor:
		return decodeWith(capacitorFields, rec)
	default:
		return nil, model.ErrUnknownKind
	}
}

func decodeWith[T model.Attributes](ft fieldTable[T], rec Record) (model.Attributes, error) {
	var out T
	for _, f := range ft.nums {
		v, base, err := rec.number(f.key)
		if err != nil {
			return nil, err
		}
		if !base {
			v *= f.scale
		}
		f.set(&out, v)
	}
	for _, f := range ft.texts {
		f.set(&out, rec.text(f.key))
	}
	return out, nil
}

// lookup: сначала точный ключ, затем по нормализованному имени
// ("inductance_(uH)" и "Inductance (µH)": одно и то же).
func (r Record) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	want := fieldKey(key)
	for k, v := range r {
		if fieldKey(k) == want {
			return v, true
		}
	}
	return nil, false
}

// number returns 0 for absent, null and unparsable text; only a value of the
// wrong JSON shape is an error. base is true when a string carried its own SI
// prefix ("4.7 kOhm", "100nF"): the value is then already in base units and
// the unit of the vendor key does not apply.
func (r Record) number(key string) (v float64, base bool, err error) {
	raw, ok := r.lookup(key)
	if !ok {
		return 0, false, nil
	}
	switch x := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return x, false, nil
	case int:
		return float64(x), false, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("%s=%q: %w", key, x, model.ErrUnparsableRecord)
		}
		return f, false, nil
	case string:
		f, prefixed, _ := utils.ParseQuantity(x)
		return f, prefixed, nil
	default:
		return 0, false, fmt.Errorf("%s: unexpected %T: %w", key, raw, model.ErrUnparsableRecord)
	}
}

func (r Record) text(key string) string {
	raw, ok := r.lookup(key)
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// fieldKey: NFKC (µ U+00B5 -> μ U+03BC), нижний регистр, только буквы/цифры,
// греческая мю -> "u".
func fieldKey(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == 'μ':
			b.WriteRune('u')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
