package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"xref-service/internal/fileio"
	"xref-service/internal/xref/model"
	"xref-service/internal/xref/service"
)

// Xref возвращает http.HandlerFunc для r.Post("/xref", ...).
// Форма: bom (файл), header_row (1-based), format=csv|xlsx|json.
// reportHeader: заголовок отчёта, nil: fileio.ReportHeader.
func Xref(svc *service.Service, defaultHeaderRow int, reportHeader []string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger
		if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
			log = *l
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			writeError(w, status, "bad multipart form: "+err.Error())
			return
		}

		file, header, err := r.FormFile("bom")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing bom: "+err.Error())
			return
		}
		defer file.Close()

		headerRow := atoi(r.FormValue("header_row"), defaultHeaderRow)
		rows, err := fileio.ReadAnyMaps(file, header.Filename, headerRow)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, model.ErrUnsupportedFile) {
				status = http.StatusUnsupportedMediaType
			}
			writeError(w, status, "failed to read bom: "+err.Error())
			return
		}

		res, err := svc.Run(r.Context(), rows)
		if err != nil {
			log.Warn().Err(err).Msg("xref aborted")
			writeError(w, http.StatusServiceUnavailable, "batch aborted: "+err.Error())
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Run-ID", res.RunID)
		switch strings.ToLower(r.FormValue("format")) {
		case "json":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			err = enc.Encode(res)
		case "xlsx":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
			err = fileio.WriteReportXLSX(w, reportHeader, res.ReportRows())
		default:
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
			err = fileio.WriteReportCSV(w, reportHeader, res.ReportRows())
		}
		if err != nil {
			log.Error().Err(err).Msg("write response")
			return
		}

		log.Info().
			Str("file", header.Filename).
			Int("rows", len(rows)).
			Int("matched", res.Stats.Matched).
			Dur("elapsed", time.Since(start)).
			Msg("xref done")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 1 {
		return def
	}
	return i
}
