package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/models"
	"nutrition-coach/internal/services"
)

type WeightHandlers struct {
	analytics     *analytics.Service
	weightService *services.WeightService
}

func NewWeightHandlers(analyticsService *analytics.Service, weightService *services.WeightService) *WeightHandlers {
	return &WeightHandlers{
		analytics:     analyticsService,
		weightService: weightService,
	}
}

// LogWeight handles POST /weight-log/?userid=&weight=&unit=
func (h *WeightHandlers) LogWeight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := intParam(q.Get("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "weight must be a number")
		return
	}

	resp, err := h.weightService.LogWeight(r.Context(), userID, weight, q.Get("unit"))
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// WeightLogs handles GET /weight-log/logs?userid=&mode=
func (h *WeightHandlers) WeightLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := intParam(q.Get("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.analytics.WeightLogs(r.Context(), userID, q.Get("mode"))
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateWeightTarget handles PUT /weight-log/user/{userid}/weight-target
func (h *WeightHandlers) UpdateWeightTarget(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r.PathValue("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.WeightTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	resp, err := h.weightService.UpdateWeightTarget(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
