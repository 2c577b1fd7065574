// Package server exposes the telemetry pipeline over HTTP for the
// dashboard frontend: chart series, GPX export, and archive import.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redcap-42/runboard/pkg/analysis"
	"github.com/redcap-42/runboard/pkg/archive"
	"github.com/redcap-42/runboard/pkg/domain/telemetry"
	"github.com/redcap-42/runboard/pkg/locator"
)

// maxImportBody bounds an uploaded activity archive. Vendor archives are
// single activities and stay well under this.
const maxImportBody = 32 << 20

type Server struct {
	Analysis *analysis.Service
	Logger   *slog.Logger
}

func New(svc *analysis.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Analysis: svc, Logger: logger}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1/users/{userID}/activities/{activityID}", func(r chi.Router) {
		r.Get("/series", s.handleSeries)
		r.Get("/export.gpx", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	activityID := chi.URLParam(r, "activityID")

	series, err := s.Analysis.ActivitySeries(r.Context(), userID, activityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	activityID := chi.URLParam(r, "activityID")

	doc, err := s.Analysis.ExportGPX(r.Context(), userID, activityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+activityID+`.gpx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	activityID := chi.URLParam(r, "activityID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "archive too large"})
		return
	}

	result, err := s.Analysis.ImportArchive(r.Context(), userID, activityID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps pipeline errors onto HTTP statuses. The empty-track
// cases get distinct messages so the frontend can word indoor activities
// differently from activities that simply recorded no GPS.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		msg    = "internal error"
	)

	var resErr *locator.ResolutionError
	var decErr *telemetry.DecodeError
	var extErr *archive.ExtractionError
	switch {
	case errors.As(err, &extErr):
		status = http.StatusBadRequest
		msg = "archive could not be extracted"
	case errors.As(err, &resErr):
		status = http.StatusNotFound
		msg = "activity file not found"
	case errors.Is(err, analysis.ErrIndoorActivity):
		status = http.StatusUnprocessableEntity
		msg = "indoor activity: no GPS track to export"
	case errors.Is(err, analysis.ErrNoLocationData):
		status = http.StatusUnprocessableEntity
		msg = "activity has no location data"
	case errors.Is(err, analysis.ErrFitFileMissing):
		status = http.StatusUnprocessableEntity
		msg = "archive does not contain a fit file"
	case errors.As(err, &decErr):
		status = http.StatusUnprocessableEntity
		msg = "activity file could not be decoded"
	}

	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.Logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	s.writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("failed to encode response", "error", err)
	}
}

// requestID tags every request with an id for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}
