// Package server exposes the refinance calculations over HTTP: JSON
// analysis, CSV and PDF exports, scenario export, market rates and a
// small embedded web page.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/refi-calculator/internal/config"
	"github.com/iwvelando/refi-calculator/internal/forecast"
	"github.com/iwvelando/refi-calculator/internal/market"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/iwvelando/refi-calculator/pkg/report"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// MarketSource supplies historical mortgage rates.
type MarketSource interface {
	Snapshot(ctx context.Context, months int, now time.Time) market.Snapshot
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	market        MarketSource
	now           func() time.Time
}

type forecastOptions struct {
	RateSearch bool
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// refinance API. A nil market source disables /api/market.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, marketSource MarketSource) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		market:        marketSource,
		now:           time.Now,
	}
	return h.routes()
}

func (h *handler) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/analyze/upload", h.handleAnalyzeUpload).Methods(http.MethodPost)
	api.HandleFunc("/export/{table}", h.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/report", h.handleReport).Methods(http.MethodPost)
	api.HandleFunc("/scenario/export", h.handleScenarioExport).Methods(http.MethodPost)
	api.HandleFunc("/market", h.handleMarket).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(http.FileServer(http.FS(sub)))

	return r
}

type analyzeResponse struct {
	forecast.Forecast
	Duration   string `json:"duration"`
	ConfigYAML string `json:"configYaml,omitempty"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg, opts, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleAnalyze")
		return
	}
	h.runForecast(w, cfg, opts, start, "server.handleAnalyze")
}

func (h *handler) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing scenario file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleAnalyzeUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read scenario: %v", err))
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := forecastOptions{RateSearch: coerceBool(r.FormValue("rateSearch"))}
	h.runForecast(w, cfg, opts, start, "server.handleAnalyzeUpload")
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	table := mux.Vars(r)["table"]

	cfg, _, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	result, err := forecast.GetForecast(h.logger, *cfg, forecast.Options{})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := output.WriteTableCSV(&buf, table, result.Tables()); err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", output.ExportFilename(table, "csv", h.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	cfg, _, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	result, err := forecast.GetForecast(h.logger, *cfg, forecast.Options{})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	now := h.now()
	pdfBytes, err := report.GeneratePDF(result.ReportInput(now))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", output.ExportFilename("report", "pdf", now)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Error("failed to write PDF response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleScenarioExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarioExport"

	cfg, _, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	yamlBytes, err := marshalScenarioYAML(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalScenarioYAML dumps the parts of a configuration that describe the
// scenario. Market credentials are never exported.
func marshalScenarioYAML(cfg *config.Configuration) ([]byte, error) {
	exported := *cfg
	exported.Market = config.MarketConfig{}
	return yaml.Marshal(exported)
}

func (h *handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMarket"
	if h.market == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "market data is not configured", op)
		return
	}

	months := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("months")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid months %q", raw), op)
			return
		}
		months = parsed
	}

	snapshot := h.market.Snapshot(r.Context(), months, h.now())
	h.logger.Info("market data served",
		zap.String("op", op),
		zap.Int("months", months),
		zap.Int("errors", len(snapshot.Errors)),
	)
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeRequest reads a JSON configuration. The body is either the
// configuration itself or {"config": {...}, "options": {...}}. Unset values
// take the usual defaults.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*config.Configuration, forecastOptions, error) {
	var opts forecastOptions

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, opts, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, opts, errors.New("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, opts, errors.New("invalid options payload: expected object")
		}
		if searchVal, ok := optsMap["rateSearch"]; ok {
			opts.RateSearch = coerceBool(searchVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, opts, fmt.Errorf("failed to encode configuration: %w", err)
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

func (h *handler) runForecast(w http.ResponseWriter, cfg *config.Configuration, opts forecastOptions, start time.Time, op string) {
	result, err := forecast.GetForecast(h.logger, *cfg, forecast.Options{RateSearch: opts.RateSearch})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	configYAML, err := marshalScenarioYAML(cfg)
	if err != nil {
		h.logger.Warn("failed to marshal configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	elapsed := time.Since(start)
	response := analyzeResponse{
		Forecast:   result,
		Duration:   elapsed.String(),
		ConfigYAML: string(configYAML),
	}

	h.logger.Info("refinance analyzed",
		zap.String("op", op),
		zap.Int("sensitivityRows", len(result.Sensitivity)),
		zap.Int("holdingRows", len(result.Holding)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleAnalyzeUpload")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
