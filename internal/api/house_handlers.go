package api

import (
	"encoding/json"
	"net/http"
	"parkhaus/internal/auth"
	"parkhaus/internal/entities"
	"parkhaus/internal/service"

	"github.com/gorilla/mux"
)

type HouseHandler struct {
	Service *service.HouseService
}

func NewHouseHandler(svc *service.HouseService) *HouseHandler {
	return &HouseHandler{Service: svc}
}

func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req entities.HouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	house, err := h.Service.CreateHouse(actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, house)
}

func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	house, err := h.Service.GetHouse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	houses, err := h.Service.ListHouses()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, houses)
}

func (h *HouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req entities.HouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	house, err := h.Service.UpdateHouse(actor, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteHouse(actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Parking house deleted"})
}

func (h *HouseHandler) Slots(w http.ResponseWriter, r *http.Request) {
	now, err := parseNow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	slots, err := h.Service.ListSlotsWithStatus(mux.Vars(r)["id"], now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *HouseHandler) Availability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.Service.Availability()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}
