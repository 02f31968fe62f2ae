package service

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"xref-service/internal/fileio"
	"xref-service/internal/metrics"
	"xref-service/internal/xref/model"
	"xref-service/internal/xref/normalize"
)

// CatalogStats summarizes one catalog build.
type CatalogStats struct {
	Files        int            `json:"files"`
	SkippedFiles int            `json:"skippedFiles"`
	Records      int            `json:"records"`
	Rejected     map[string]int `json:"rejected"`
	PerKind      map[string]int `json:"perKind"`
}

// LoadCatalog reads every dump in dir and normalizes it. A file with no kind
// keyword or an undecodable body is skipped; a bad record is skipped. Only
// a missing/unreadable directory is fatal.
func LoadCatalog(ctx context.Context, dir string, norm normalize.Catalog, logger zerolog.Logger) ([]model.Component, CatalogStats, error) {
	stats := CatalogStats{Rejected: map[string]int{}, PerKind: map[string]int{}}
	files, err := fileio.CatalogFiles(dir)
	if err != nil {
		return nil, stats, err
	}

	var out []model.Component
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		name := filepath.Base(path)
		log := logger.With().Str("file", name).Logger()

		kind := normalize.KindFromFilename(name)
		if kind == model.KindUnknown {
			log.Warn().Msg("catalog file skipped: no component kind in name")
			stats.SkippedFiles++
			continue
		}
		entries, err := fileio.ReadCatalogFile(path)
		if err != nil {
			log.Warn().Err(err).Msg("catalog file skipped")
			stats.SkippedFiles++
			continue
		}
		stats.Files++

		kept := 0
		for _, e := range entries {
			stats.Records++
			err := e.Err
			if err == nil {
				var c model.Component
				if c, err = norm.Normalize(normalize.Record(e.Fields), kind); err == nil {
					out = append(out, c)
					kept++
					continue
				}
			}
			rerr := &model.RecordError{Source: name, Index: e.Index, OrderCode: orderCodeOf(e.Fields), Err: err}
			reason := rejectReason(err)
			stats.Rejected[reason]++
			metrics.CatalogRejected.WithLabelValues(reason).Inc()
			log.Warn().Err(rerr).Str("reason", reason).Msg("catalog record skipped")
		}
		stats.PerKind[kind.String()] += kept
		log.Debug().Int("records", len(entries)).Int("kept", kept).Str("kind", kind.String()).Msg("catalog file loaded")
	}

	metrics.SetCatalog(stats.PerKind)
	logger.Info().
		Int("files", stats.Files).
		Int("skipped_files", stats.SkippedFiles).
		Int("components", len(out)).
		Interface("per_kind", stats.PerKind).
		Msg("catalog built")
	return out, stats, nil
}

func orderCodeOf(fields map[string]any) string {
	if s, ok := fields["Order_Code"].(string); ok {
		return s
	}
	return ""
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingIdentifier):
		return "missing_identifier"
	case errors.Is(err, model.ErrUnparsableRecord):
		return "unparsable"
	case errors.Is(err, model.ErrUnknownKind):
		return "unknown_kind"
	default:
		return "other"
	}
}
