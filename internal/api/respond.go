package api

import (
	"encoding/json"
	"net/http"
	"parkhaus/internal/errors"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	if se, ok := err.(*errors.ServiceError); ok {
		writeJSON(w, se.StatusCode(), map[string]string{"error": se.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

// parseNow reads the optional ?now= override for the read-only resolvers,
// falling back to the wall clock. The projection is recomputed per query
// either way.
func parseNow(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Validation("now must be an RFC3339 timestamp")
	}
	return t.UTC(), nil
}
