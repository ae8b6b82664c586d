package api

import (
	"net/http"
	"parkhaus/internal/auth"
	"parkhaus/internal/errors"
	"parkhaus/internal/service"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: svc}
}

// Statistics handles GET /api/houses/{id}/stats?from=&to=&bucket_days=
func (h *StatsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	houseID := mux.Vars(r)["id"]

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, errors.Validation("from must be an RFC3339 timestamp"))
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, errors.Validation("to must be an RFC3339 timestamp"))
		return
	}

	bucketDays := 1
	if raw := r.URL.Query().Get("bucket_days"); raw != "" {
		bucketDays, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.Validation("bucket_days must be an integer"))
			return
		}
	}

	report, err := h.Service.HouseStatistics(houseID, actor, from.UTC(), to.UTC(), bucketDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Usage handles GET /api/houses/{id}/usage?days=30
func (h *StatsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	houseID := mux.Vars(r)["id"]

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.Validation("days must be an integer"))
			return
		}
	}

	report, err := h.Service.DailyUsage(houseID, actor, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
