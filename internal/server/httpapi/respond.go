package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into v and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps service sentinels to status codes. Unmatched errors
// are logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, detail(err, common.ErrInvalidInput, "Invalid input"))
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, detail(err, common.ErrConflict, "Already exists"))
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrStorageNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Storage not configured")
	default:
		s.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// detail returns the human part of an error wrapped as "<sentinel>: <msg>".
func detail(err, sentinel error, fallback string) string {
	msg, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": ")
	if !ok || msg == "" {
		return fallback
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
