package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sydlexius/tonearm/internal/logging"
	"github.com/sydlexius/tonearm/internal/version"
)

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleResolve(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
		return
	}
	debug := req.URL.Query().Get("debug") == "1"

	res, err := r.resolver.Resolve(req.Context(), query, debug)
	if err != nil {
		// The resolver only errors on caller cancellation.
		if errors.Is(err, req.Context().Err()) {
			return
		}
		r.logger.Error("resolve failed", "query", query, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolution failed"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (r *Router) handleGetLogging(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, r.logManager.Config())
}

func (r *Router) handlePutLogging(w http.ResponseWriter, req *http.Request) {
	var cfg logging.Config
	if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !logging.ValidLevel(cfg.Level) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log level"})
		return
	}
	if !logging.ValidFormat(cfg.Format) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log format"})
		return
	}

	r.logManager.Reconfigure(cfg)
	writeJSON(w, http.StatusOK, r.logManager.Config())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}
