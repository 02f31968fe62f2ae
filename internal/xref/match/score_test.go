package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xref-service/internal/xref/model"
)

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t float64
		want    float64
	}{
		{"identical", 47, 47, 0.1, 1},
		{"identical zero tolerance", 3.3, 3.3, 0, 1},
		{"within tolerance", 100, 105, 0.1, 1},
		{"at tolerance edge", 100, 110, 0.1, 1},
		{"outside tolerance decays", 100, 150, 0.1, 1 / 1.5},
		{"order does not matter", 150, 100, 0.1, 1 / 1.5},
		{"far apart", 1, 1000, 0.2, 0.001},
		{"absent left", 0, 100, 0.1, 0},
		{"absent right", 100, 0, 0.1, 0},
		{"both absent", 0, 0, 0.1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompareValues(tt.a, tt.b, tt.t), 1e-9)
		})
	}
}

func TestCompareValues_Properties(t *testing.T) {
	values := []float64{1e-12, 0.001, 0.25, 1, 4.7, 100, 10000, 1e9}
	tolerances := []float64{0, 0.1, 0.2, 1}
	for _, a := range values {
		for _, tol := range tolerances {
			assert.Equal(t, 1.0, CompareValues(a, a, tol))
			for _, b := range values {
				s := CompareValues(a, b, tol)
				assert.Equal(t, s, CompareValues(b, a, tol), "symmetry %v %v", a, b)
				assert.Greater(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	}
}

func resistor(code string, r model.Resistor) model.Component {
	c, err := model.New("", code, "WE", "", r)
	if err != nil {
		panic(err)
	}
	return c
}

func TestCalculateMatchScore_Resistor(t *testing.T) {
	a := resistor("A", model.Resistor{Resistance: 1000, RatedPower: 0.25, RatedCurrent: 0.1, Length: 3.2, Width: 1.6, Height: 0.55})
	b := resistor("B", model.Resistor{Resistance: 1000, RatedPower: 0.25, RatedCurrent: 0.1, Length: 3.2, Width: 1.6, Height: 0.55})

	s, ok := CalculateMatchScore(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.2, s, 1e-9)
}

func TestCalculateMatchScore_Weights(t *testing.T) {
	a := resistor("A", model.Resistor{Resistance: 1000, RatedPower: 0.25})
	b := resistor("B", model.Resistor{Resistance: 2000, RatedPower: 0.25, RatedCurrent: 1})

	s, ok := CalculateMatchScore(a, b)
	require.True(t, ok)
	// 0.4*0.5 + 0.3*1 + 0.3*0 + 0.2*0
	assert.InDelta(t, 0.5, s, 1e-9)
}

func TestCalculateMatchScore_PerKindAttributes(t *testing.T) {
	ind := func(l, i, dcr float64) model.Component {
		c, _ := model.New("", "L", "", "", model.Inductor{Inductance: l, RatedCurrent: i, DCResistance: dcr, SaturationCurrent: 99})
		return c
	}
	s, ok := CalculateMatchScore(ind(10e-6, 2, 0.05), ind(10e-6, 2, 0.05))
	require.True(t, ok)
	assert.InDelta(t, 1.0, s, 1e-9)

	capc := func(c, v, ripple float64) model.Component {
		comp, _ := model.New("", "C", "", "", model.Capacitor{Capacitance: c, RatedVoltage: v, RippleCurrent: ripple, Impedance: 1})
		return comp
	}
	s, ok = CalculateMatchScore(capc(100e-6, 25, 0), capc(100e-6, 25, 0.3))
	require.True(t, ok)
	assert.InDelta(t, 0.7, s, 1e-9)
}

func TestCalculateMatchScore_CrossKindRejected(t *testing.T) {
	r := resistor("R", model.Resistor{Resistance: 1})
	l, err := model.New("", "L", "", "", model.Inductor{Inductance: 1})
	require.NoError(t, err)

	_, ok := CalculateMatchScore(r, l)
	assert.False(t, ok)
	_, ok = CalculateMatchScore(r, model.Component{})
	assert.False(t, ok)
}

func TestComparePhysicalDimensions(t *testing.T) {
	a := model.Resistor{Length: 10, Width: 5, Height: 2}

	assert.InDelta(t, 1.0, ComparePhysicalDimensions(a, model.Resistor{Length: 11, Width: 5.5, Height: 2.3}), 1e-9)
	// missing height counts as 0 and stays in the average
	assert.InDelta(t, 2.0/3.0, ComparePhysicalDimensions(a, model.Resistor{Length: 10, Width: 5}), 1e-9)
	assert.InDelta(t, 0.0, ComparePhysicalDimensions(model.Resistor{}, a), 1e-9)

	capA := model.Capacitor{Length: 11, Pitch: 2.5, Diameter: 6.3}
	capB := model.Capacitor{Length: 11, Pitch: 5, Diameter: 6.3}
	assert.InDelta(t, (1+0.5+1)/3.0, ComparePhysicalDimensions(capA, capB), 1e-9)
}
