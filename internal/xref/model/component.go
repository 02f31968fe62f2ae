// Package model holds the canonical component record shared by the catalog,
// the BOM and the matcher.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindResistor
	KindInductor
	KindCapacitor
)

// Kinds lists every matchable kind in catalog order.
func Kinds() []Kind { return []Kind{KindResistor, KindInductor, KindCapacitor} }

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "resistor"
	case KindInductor:
		return "inductor"
	case KindCapacitor:
		return "capacitor"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Mount string

const (
	MountUnknown Mount = ""
	MountSMD     Mount = "SMD"
	MountTHT     Mount = "THT"
)

// ParseMount понимает "smd", "SMT", "tht", "through hole"; остальное -> MountUnknown.
func ParseMount(s string) Mount {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "SMD" || s == "SMT" || strings.HasPrefix(s, "SURFACE"):
		return MountSMD
	case s == "THT" || s == "TH" || strings.HasPrefix(s, "THROUGH"):
		return MountTHT
	default:
		return MountUnknown
	}
}

// Attributes is the closed set of per-kind attribute records. Only the types
// in this package implement it, so a new kind has to provide its scored
// attributes and physical axes before it compiles.
//
// A numeric attribute equal to 0 means "absent": vendor dumps use 0 and
// missing interchangeably.
type Attributes interface {
	Kind() Kind
	// Primary returns the three scored electrical attributes, heaviest weight first.
	Primary() [3]float64
	// Dimensions returns (length, width axis, height axis) in mm.
	Dimensions() [3]float64
	sealed()
}

type Resistor struct {
	Resistance   float64 `json:"resistance"`   // Ohm
	RatedPower   float64 `json:"ratedPower"`   // W
	RatedCurrent float64 `json:"ratedCurrent"` // A
	Length       float64 `json:"length"`       // mm
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Mount        Mount   `json:"mount,omitempty"`
	Series       string  `json:"series,omitempty"`
}

func (Resistor) Kind() Kind { return KindResistor }
func (r Resistor) Primary() [3]float64 {
	return [3]float64{r.Resistance, r.RatedPower, r.RatedCurrent}
}
func (r Resistor) Dimensions() [3]float64 { return [3]float64{r.Length, r.Width, r.Height} }
func (Resistor) sealed()                  {}

type Inductor struct {
	Inductance            float64 `json:"inductance"`   // H
	RatedCurrent          float64 `json:"ratedCurrent"` // A
	SaturationCurrent     float64 `json:"saturationCurrent"`
	DCResistance          float64 `json:"dcResistance"`          // Ohm
	SelfResonantFrequency float64 `json:"selfResonantFrequency"` // Hz
	Length                float64 `json:"length"`                // mm
	Height                float64 `json:"height"`
	Diameter              float64 `json:"diameter"`
	Mount                 Mount   `json:"mount,omitempty"`
	Series                string  `json:"series,omitempty"`
}

func (Inductor) Kind() Kind { return KindInductor }
func (i Inductor) Primary() [3]float64 {
	return [3]float64{i.Inductance, i.RatedCurrent, i.DCResistance}
}

// Diameter occupies the width axis: vendor "Width" is stored there.
func (i Inductor) Dimensions() [3]float64 { return [3]float64{i.Length, i.Diameter, i.Height} }
func (Inductor) sealed()                  {}

type Capacitor struct {
	RatedVoltage              float64 `json:"ratedVoltage"` // V
	LifeCycles                int     `json:"lifeCycles"`
	DissipationFactor         float64 `json:"dissipationFactor"`
	RippleCurrent             float64 `json:"rippleCurrent"` // A
	Capacitance               float64 `json:"capacitance"`   // F
	Length                    float64 `json:"length"`        // mm
	Pitch                     float64 `json:"pitch"`
	Diameter                  float64 `json:"diameter"`
	LeakageCurrent            float64 `json:"leakageCurrent"` // A
	Impedance                 float64 `json:"impedance"`      // Ohm
	OperatingTemperatureRange string  `json:"operatingTemperatureRange,omitempty"`
	Mount                     Mount   `json:"mount,omitempty"`
	Family                    string  `json:"family,omitempty"`
}

func (Capacitor) Kind() Kind { return KindCapacitor }
func (c Capacitor) Primary() [3]float64 {
	return [3]float64{c.Capacitance, c.RatedVoltage, c.RippleCurrent}
}

// Pitch and Diameter occupy the width and height axes: vendor "Width" and
// "Height" are stored there.
func (c Capacitor) Dimensions() [3]float64 { return [3]float64{c.Length, c.Pitch, c.Diameter} }
func (Capacitor) sealed()                  {}

// Component is an immutable part record. Build it with New; the attribute
// values are held by value so nothing outside can mutate them.
type Component struct {
	ID           string     `json:"id"`
	OrderCode    string     `json:"orderCode"`
	Manufacturer string     `json:"manufacturer"`
	URL          string     `json:"url,omitempty"`
	Attrs        Attributes `json:"attributes"`
}

// New validates identity: order code is required and id falls back to it.
func New(id, orderCode, manufacturer, url string, attrs Attributes) (Component, error) {
	orderCode = strings.TrimSpace(orderCode)
	if orderCode == "" {
		return Component{}, ErrMissingIdentifier
	}
	if attrs == nil {
		return Component{}, ErrUnknownKind
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = orderCode
	}
	return Component{
		ID:           id,
		OrderCode:    orderCode,
		Manufacturer: strings.TrimSpace(manufacturer),
		URL:          strings.TrimSpace(url),
		Attrs:        attrs,
	}, nil
}

func (c Component) Kind() Kind {
	if c.Attrs == nil {
		return KindUnknown
	}
	return c.Attrs.Kind()
}

// MarshalJSON adds the kind next to the identity fields.
func (c Component) MarshalJSON() ([]byte, error) {
	type plain Component
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{c.Kind(), plain(c)})
}

func (c Component) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Kind(), c.OrderCode, c.Manufacturer)
}
