// Package service runs one cross-reference batch: BOM rows in, one
// (competitor, best match) pair per usable row out.
package service

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"xref-service/internal/fileio"
	"xref-service/internal/metrics"
	"xref-service/internal/xref/enrich"
	"xref-service/internal/xref/match"
	"xref-service/internal/xref/model"
	"xref-service/internal/xref/normalize"
)

// Pair is one output line. Matched is false when the catalog had no
// candidate of the competitor's kind; Match is then zero.
type Pair struct {
	Competitor model.Component `json:"competitor"`
	Match      match.Match     `json:"match"`
	Matched    bool            `json:"matched"`
}

type Stats struct {
	RowsRead       int `json:"rowsRead"`
	Matched        int `json:"matched"`
	Unmatched      int `json:"unmatched"`
	DroppedKind    int `json:"droppedUnknownKind"`
	DroppedID      int `json:"droppedMissingIdentifier"`
	EnrichFailures int `json:"enrichFailures"`
}

type Result struct {
	RunID string `json:"runId"`
	Pairs []Pair `json:"pairs"`
	Stats Stats  `json:"stats"`
}

type Service struct {
	index   *match.Index
	enrich  enrich.Func
	workers int
	logger  zerolog.Logger
}

type Option func(*Service)

// WithEnricher sets the enrichment capability; the default finds nothing.
func WithEnricher(f enrich.Func) Option {
	return func(s *Service) {
		if f != nil {
			s.enrich = f
		}
	}
}

// WithWorkers bounds concurrent per-row work; n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.logger = l } }

// New builds a service over an already normalized catalog. The catalog is
// read-only from here on.
func New(catalog []model.Component, opts ...Option) *Service {
	s := &Service{
		index:   match.NewIndex(catalog),
		enrich:  enrich.None,
		workers: runtime.GOMAXPROCS(0),
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) CatalogSize() int { return s.index.Len() }

// Run normalizes rows, enriches and matches each usable one, and returns
// the pairs in input order. Per-row failures are logged and never fail the
// batch; only ctx cancellation does.
func (s *Service) Run(ctx context.Context, rows []map[string]string) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := s.logger.With().Str("run_id", res.RunID).Logger()

	// 1) нормализация строк BOM (последовательно, порядок сохраняется)
	res.Stats.RowsRead = len(rows)
	parsed := make([]normalize.BOMRow, 0, len(rows))
	for i, rec := range rows {
		row, err := normalize.ParseBOMRow(rec)
		if err != nil {
			rerr := &model.RecordError{Source: "bom", Index: i + 1, OrderCode: row.OrderCode, Err: err}
			switch {
			case errors.Is(err, model.ErrUnknownKind):
				res.Stats.DroppedKind++
				log.Debug().Err(rerr).Str("type", row.Label).Msg("bom row dropped")
			default:
				res.Stats.DroppedID++
				log.Warn().Err(rerr).Msg("bom row dropped")
			}
			continue
		}
		parsed = append(parsed, row)
	}

	// 2) обогащение + подбор; каждая горутина пишет только в свой слот
	res.Pairs = make([]Pair, len(parsed))
	enrichFailed := make([]bool, len(parsed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, row := range parsed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			comp, failed := s.competitor(gctx, log, i+1, row)
			enrichFailed[i] = failed
			p := Pair{Competitor: comp}
			p.Match, p.Matched = s.index.Find(comp)
			res.Pairs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	for i, p := range res.Pairs {
		if p.Matched {
			res.Stats.Matched++
		} else {
			res.Stats.Unmatched++
		}
		if enrichFailed[i] {
			res.Stats.EnrichFailures++
		}
	}

	dur := time.Since(start)
	metrics.RecordBatch(map[string]int{
		"matched":              res.Stats.Matched,
		"unmatched":            res.Stats.Unmatched,
		"dropped_unknown_kind": res.Stats.DroppedKind,
		"dropped_missing_id":   res.Stats.DroppedID,
	}, dur)
	log.Info().
		Int("rows", res.Stats.RowsRead).
		Int("matched", res.Stats.Matched).
		Int("unmatched", res.Stats.Unmatched).
		Int("dropped_kind", res.Stats.DroppedKind).
		Int("dropped_id", res.Stats.DroppedID).
		Int("enrich_failures", res.Stats.EnrichFailures).
		Dur("elapsed", dur).
		Msg("batch done")
	return res, nil
}

// competitor builds the competitor component for one row. Enrichment errors
// and undecodable enrichment output fall back to the bare BOM identity.
func (s *Service) competitor(ctx context.Context, log zerolog.Logger, idx int, row normalize.BOMRow) (model.Component, bool) {
	patch, err := s.enrich(ctx, row.OrderCode)
	if err != nil {
		metrics.EnrichCallsTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Int("row", idx).Str("order_code", row.OrderCode).Msg("enrichment failed")
		comp, _ := row.Component(nil)
		return comp, true
	}
	if patch == nil {
		metrics.EnrichCallsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.EnrichCallsTotal.WithLabelValues("ok").Inc()
	}
	comp, err := row.Component(patch)
	if err != nil {
		log.Warn().Err(&model.RecordError{Source: "enrich", Index: idx, OrderCode: row.OrderCode, Err: err}).Msg("enrichment output ignored")
		comp, _ = row.Component(nil)
		return comp, true
	}
	return comp, false
}

// ReportRows converts pairs to report lines in input order.
func (r Result) ReportRows() []fileio.ReportRow {
	out := make([]fileio.ReportRow, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		row := fileio.ReportRow{
			CompetitorPN: p.Competitor.OrderCode,
			Competitor:   p.Competitor.Manufacturer,
			Category:     p.Competitor.Kind().String(),
		}
		if p.Matched {
			row.AlternativePN = p.Match.Component.OrderCode
		}
		out = append(out, row)
	}
	return out
}
