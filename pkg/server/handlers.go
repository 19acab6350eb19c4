package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	errs "igresolve/pkg/errors"
	"igresolve/pkg/instagram"
)

// resolveRequest is the body of POST /api/resolve
type resolveRequest struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// errorResponse mirrors the resolver.Result shape for failed resolutions
type errorResponse struct {
	Success bool     `json:"success"`
	Kind    string   `json:"content_type,omitempty"`
	Media   []string `json:"media_urls"`
	Message string   `json:"message"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	hint := instagram.KindAuto
	if req.ContentType != "" {
		hint = instagram.ContentKind(strings.ToLower(req.ContentType))
	}

	result, err := s.resolver.Resolve(r.Context(), req.URL, hint)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "igresolve",
	})
}

// writeResolveError maps the error taxonomy onto HTTP statuses. Content-state
// outcomes (private, unsupported, exhausted) are successful HTTP exchanges
// carrying success=false; only malformed requests and budget exhaustion get
// error statuses.
func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		s.logger.WithError(err).Error("unexpected resolution failure")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch apiErr.Type {
	case errs.ErrorTypeInvalidInput, errs.ErrorTypeTokenNotFound:
		writeError(w, http.StatusBadRequest, apiErr.Message)
	case errs.ErrorTypeRateLimit:
		writeError(w, http.StatusTooManyRequests, apiErr.Message)
	case errs.ErrorTypePrivateOrUnavailable,
		errs.ErrorTypeUnsupportedKind,
		errs.ErrorTypeNotFound,
		errs.ErrorTypeAllStrategiesExhausted,
		errs.ErrorTypeFetchExhausted:
		writeJSON(w, http.StatusOK, errorResponse{
			Success: false,
			Media:   []string{},
			Message: apiErr.Message,
		})
	default:
		s.logger.WithError(apiErr).Error("unexpected resolution failure")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Media:   []string{},
		Message: message,
	})
}
