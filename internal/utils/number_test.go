package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.25", 0.25, true},
		{"0,25", 0.25, true},
		{"1 000", 1000, true},
		{"1 234,50", 1234.5, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"10 Ohm", 10, true},
		{"-3", -3, true},
		{"1e-6", 1e-6, true},
		{"1,000", 1, true}, // одиночная запятая: десятичный разделитель
		{"10k", 10e3, true},
		{"4.7 kOhm", 4.7e3, true},
		{"2.2M", 2.2e6, true},
		{"100nF", 100e-9, true},
		{"22 pF", 22e-12, true},
		{"4,7 µH", 4.7e-6, true},
		{"10uH", 10e-6, true},
		{"150 mA", 0.15, true},
		{"100 MHz", 1e8, true},
		{"4k7", 4.7e3, true},
		{"4R7", 4.7, true},
		{"2.2mm", 2.2, true},
		{"5%", 5, true},
		{"", 0, false},
		{"  ", 0, false},
		{"n/a", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseQuantity_Prefixed(t *testing.T) {
	v, prefixed, ok := ParseQuantity("47 µF")
	assert.True(t, ok)
	assert.True(t, prefixed)
	assert.InDelta(t, 47e-6, v, 1e-18)

	v, prefixed, ok = ParseQuantity("47")
	assert.True(t, ok)
	assert.False(t, prefixed)
	assert.Equal(t, 47.0, v)

	_, prefixed, ok = ParseQuantity("1.6 mm")
	assert.True(t, ok)
	assert.False(t, prefixed)

	_, _, ok = ParseQuantity("n/a")
	assert.False(t, ok)
}
