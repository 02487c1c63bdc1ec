package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/dataset"
	"github.com/auditlab-io/tableaudit/pkg/engine"
	"github.com/auditlab-io/tableaudit/pkg/loader"
	"github.com/auditlab-io/tableaudit/pkg/report"
)

const maxUploadBytes = 32 << 20

// handleAnalyze accepts a multipart CSV upload in the "file" field, runs a
// full audit, and returns the report wrapped in a run envelope. Individual
// thresholds can be overridden per request through form fields named after
// the configuration keys.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(http.StatusBadRequest, "expected multipart form upload: "+err.Error()))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(http.StatusBadRequest, `missing csv upload in field "file"`))
		return
	}
	defer file.Close()

	cfg, err := s.configFromForm(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	csvLoader := loader.NewCSVLoader(file)
	if d := r.FormValue("delimiter"); d != "" {
		csvLoader.Comma = []rune(d)[0]
	}

	ds, err := csvLoader.Load(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ErrorResponse(http.StatusUnprocessableEntity, "failed to parse csv upload: "+err.Error()))
		return
	}

	rep, err := engine.Analyze(ds, cfg)
	if err != nil {
		var invalidErr *dataset.InvalidDatasetError
		var confErr *config.ConfigurationError
		switch {
		case errors.As(err, &invalidErr), errors.As(err, &confErr):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			s.logger.Error("analysis failed", "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse(http.StatusInternalServerError, "analysis failed"))
		}
		return
	}

	observeAnalysis(rep.Verdict, time.Since(start))
	s.logger.Info("analysis complete",
		"verdict", rep.Verdict,
		"quality_score", rep.QualityScore,
		"rows", rep.Stats.Rows,
		"elapsed", time.Since(start),
	)

	render.JSON(w, r, SuccessResponse(report.NewEnvelope(rep, start)))
}

// handleConfigDefaults returns the server's baseline analysis configuration.
func (s *Server) handleConfigDefaults(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse(s.cfg))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "service": "tableaudit"})
}

// configFromForm starts from the server's baseline configuration and applies
// any threshold overrides present as form fields.
func (s *Server) configFromForm(r *http.Request) (config.Config, error) {
	cfg := s.cfg

	floatFields := map[string]*float64{
		"missing_ratio_threshold": &cfg.MissingRatioThreshold,
		"zscore_threshold":        &cfg.ZScoreThreshold,
		"trend_pct_threshold":     &cfg.TrendPctThreshold,
		"trend_severe_pct":        &cfg.TrendSeverePct,
		"quality_critical_floor":  &cfg.QualityCriticalFloor,
		"quality_warning_floor":   &cfg.QualityWarningFloor,
	}
	for field, dst := range floatFields {
		raw := r.FormValue(field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid value for %s: %q", field, raw)
		}
		*dst = v
	}

	if raw := r.FormValue("anomaly_severe_count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid value for anomaly_severe_count: %q", raw)
		}
		cfg.AnomalySevereCount = v
	}

	return cfg, nil
}
