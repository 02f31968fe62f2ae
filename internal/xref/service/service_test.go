package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xref-service/internal/fileio"
	"xref-service/internal/xref/model"
	"xref-service/internal/xref/normalize"
)

func writeDump(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func testCatalogDir(t *testing.T) string {
	dir := t.TempDir()
	writeDump(t, dir, "WE_resistors.json", `[
		{"Order_Code":"WE-1","Resistance (Ohm)":10000,"Rated_Power (W)":0.25,"Rated_Current (A)":0.1},
		{"Resistance (Ohm)":10000,"Rated_Power (W)":0.25,"Rated_Current (A)":0.1,"Length":1},
		null
	]`)
	writeDump(t, dir, "WE_inductors.json", `[{"Order_Code":"WE-L1","Inductance (µH)":10}]`)
	writeDump(t, dir, "WE_connectors.json", `[{"Order_Code":"WE-X"}]`)
	writeDump(t, dir, "WE_capacitors_broken.json", `[{"Order_Code":`)
	return dir
}

func TestLoadCatalog(t *testing.T) {
	comps, stats, err := LoadCatalog(context.Background(), testCatalogDir(t), normalize.NewCatalog(""), zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, comps, 2)
	// lexical file order: inductors before resistors
	assert.Equal(t, "WE-L1", comps[0].OrderCode)
	assert.Equal(t, "WE-1", comps[1].OrderCode)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.SkippedFiles)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, map[string]int{"missing_identifier": 1}, stats.Rejected)
	assert.Equal(t, map[string]int{"inductor": 1, "resistor": 1}, stats.PerKind)
}

func TestLoadCatalog_MissingDir(t *testing.T) {
	_, _, err := LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "nope"), normalize.NewCatalog(""), zerolog.Nop())
	assert.ErrorIs(t, err, model.ErrInputNotFound)
}

func TestRun_EndToEnd(t *testing.T) {
	catalog, _, err := LoadCatalog(context.Background(), testCatalogDir(t), normalize.NewCatalog(""), zerolog.Nop())
	require.NoError(t, err)

	svc := New(catalog, WithEnricher(func(_ context.Context, code string) (normalize.Record, error) {
		if code == "R-100" {
			return normalize.Record{"Resistance (Ohm)": 10000.0, "Rated_Power (W)": 0.25, "Rated_Current (A)": 0.1}, nil
		}
		return nil, nil
	}))
	res, err := svc.Run(context.Background(), []map[string]string{
		{"Type": "Resistor 10k", "Part Number": "R-100", "Manufacturer": "Acme"},
	})
	require.NoError(t, err)

	require.Len(t, res.Pairs, 1)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []fileio.ReportRow{{CompetitorPN: "R-100", Competitor: "Acme", Category: "resistor", AlternativePN: "WE-1"}}, res.ReportRows())
}

func TestRun_WithoutEnrichmentStillMatchesByKind(t *testing.T) {
	catalog, _, err := LoadCatalog(context.Background(), testCatalogDir(t), normalize.NewCatalog(""), zerolog.Nop())
	require.NoError(t, err)

	res, err := New(catalog).Run(context.Background(), []map[string]string{
		{"Type": "Resistor 10k", "Part Number": "R-100", "Manufacturer": "Acme"},
		{"Type": "Choke", "Part Number": "L-5", "Manufacturer": "TDK"},
	})
	require.NoError(t, err)
	rows := res.ReportRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "WE-1", rows[0].AlternativePN)
	assert.Equal(t, "WE-L1", rows[1].AlternativePN)
	assert.Equal(t, "inductor", rows[1].Category)
}

func TestRun_NoCandidateKeepsRow(t *testing.T) {
	res, err := New(nil).Run(context.Background(), []map[string]string{
		{"Type": "Capacitor", "Part Number": "C-1", "Manufacturer": "Kemet"},
	})
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.False(t, res.Pairs[0].Matched)
	assert.Equal(t, Stats{RowsRead: 1, Unmatched: 1}, res.Stats)
	assert.Equal(t, []fileio.ReportRow{{CompetitorPN: "C-1", Competitor: "Kemet", Category: "capacitor"}}, res.ReportRows())
}

func TestRun_DropsUnusableRows(t *testing.T) {
	res, err := New(nil).Run(context.Background(), []map[string]string{
		{"Type": "Diode", "Part Number": "D-1", "Manufacturer": "Vishay"},
		{"Type": "Resistor", "Part Number": "", "Manufacturer": "Vishay"},
		{"Type": "Resistor", "Part Number": "R-2", "Manufacturer": ""},
		{"Type": "Resistor", "Part Number": "R-3", "Manufacturer": "Yageo"},
	})
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "R-3", res.Pairs[0].Competitor.OrderCode)
	assert.Equal(t, Stats{RowsRead: 4, Unmatched: 1, DroppedKind: 1, DroppedID: 2}, res.Stats)
}

func TestRun_EnrichmentFailureIsIsolated(t *testing.T) {
	catalog := []model.Component{mustResistor(t, "WE-1", 100), mustResistor(t, "WE-2", 220)}
	svc := New(catalog, WithEnricher(func(_ context.Context, code string) (normalize.Record, error) {
		switch code {
		case "bad":
			return nil, errors.New("search quota exceeded")
		case "weird":
			return normalize.Record{"Resistance (Ohm)": []any{1, 2}}, nil
		}
		return normalize.Record{"Resistance (Ohm)": 220.0}, nil
	}))
	res, err := svc.Run(context.Background(), []map[string]string{
		{"Type": "Res", "Part Number": "bad", "Manufacturer": "A"},
		{"Type": "Res", "Part Number": "weird", "Manufacturer": "A"},
		{"Type": "Res", "Part Number": "good", "Manufacturer": "A"},
	})
	require.NoError(t, err)
	require.Len(t, res.Pairs, 3)
	assert.Equal(t, 2, res.Stats.EnrichFailures)
	assert.Equal(t, "WE-1", res.Pairs[0].Match.Component.OrderCode, "no data: first candidate")
	assert.Equal(t, "WE-1", res.Pairs[1].Match.Component.OrderCode)
	assert.Equal(t, "WE-2", res.Pairs[2].Match.Component.OrderCode)
}

func TestRun_OrderIndependentOfWorkers(t *testing.T) {
	// шаг 1.5x: соседние номиналы вне допуска 10%, победитель однозначен
	ohm := func(i int) float64 { return 100 * math.Pow(1.5, float64(i)) }
	var catalog []model.Component
	for i := 1; i <= 20; i++ {
		catalog = append(catalog, mustResistor(t, fmt.Sprintf("WE-%d", i), ohm(i)))
	}
	rows := make([]map[string]string, 0, 50)
	patches := map[string]normalize.Record{}
	for i := 0; i < 50; i++ {
		code := fmt.Sprintf("R-%d", i)
		rows = append(rows, map[string]string{"Type": "resistor", "Part Number": code, "Manufacturer": "M"})
		patches[code] = normalize.Record{"Resistance (Ohm)": ohm(i%20 + 1)}
	}

	serial, err := New(catalog, WithWorkers(1), WithEnricher(staticFunc(patches))).Run(context.Background(), rows)
	require.NoError(t, err)
	parallel, err := New(catalog, WithWorkers(8), WithEnricher(staticFunc(patches))).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, serial.Pairs, parallel.Pairs)
	for i, p := range parallel.Pairs {
		assert.Equal(t, fmt.Sprintf("R-%d", i), p.Competitor.OrderCode)
		assert.Equal(t, fmt.Sprintf("WE-%d", i%20+1), p.Match.Component.OrderCode)
	}
}

func TestRun_TieWithinToleranceKeepsCatalogOrder(t *testing.T) {
	catalog := []model.Component{
		mustResistor(t, "WE-18", 1800),
		mustResistor(t, "WE-19", 1900),
		mustResistor(t, "WE-20", 2000),
	}
	patches := map[string]normalize.Record{"R-1": {"Resistance (Ohm)": 1900.0}}
	rows := []map[string]string{{"Type": "resistor", "Part Number": "R-1", "Manufacturer": "M"}}

	for _, workers := range []int{1, 4} {
		res, err := New(catalog, WithWorkers(workers), WithEnricher(staticFunc(patches))).Run(context.Background(), rows)
		require.NoError(t, err)
		require.Len(t, res.Pairs, 1)
		// 1800, 1900 и 2000 в пределах 10% от 1900: все дают 1.0, выигрывает первый
		assert.Equal(t, "WE-18", res.Pairs[0].Match.Component.OrderCode)
		assert.InDelta(t, 0.4, res.Pairs[0].Match.Score, 1e-9)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Run(ctx, []map[string]string{
		{"Type": "Resistor", "Part Number": "R-1", "Manufacturer": "A"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func mustResistor(t *testing.T, code string, ohm float64) model.Component {
	t.Helper()
	c, err := normalize.NewCatalog("").Normalize(normalize.Record{"Order_Code": code, "Resistance (Ohm)": ohm}, model.KindResistor)
	require.NoError(t, err)
	return c
}

func staticFunc(m map[string]normalize.Record) func(context.Context, string) (normalize.Record, error) {
	return func(_ context.Context, code string) (normalize.Record, error) { return m[code], nil }
}
