package handlers

import (
	"encoding/json"
	"net/http"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/models"
	"nutrition-coach/internal/services"
)

type SleepHandlers struct {
	analytics    *analytics.Service
	sleepService *services.SleepService
}

func NewSleepHandlers(analyticsService *analytics.Service, sleepService *services.SleepService) *SleepHandlers {
	return &SleepHandlers{
		analytics:    analyticsService,
		sleepService: sleepService,
	}
}

func (h *SleepHandlers) CreateSleep(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r.URL.Query().Get("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.CreateSleepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := h.sleepService.CreateSleep(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *SleepHandlers) LatestSleep(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r.URL.Query().Get("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.sleepService.LatestSleep(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Sleep log not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SleepHandlers) SleepSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := intParam(q.Get("userid"), "userid")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.analytics.SleepSummary(r.Context(), userID, q.Get("mode"))
	if err != nil {
		writeServiceError(w, r, err, "Sleep log not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SleepHandlers) DeleteSleep(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r.PathValue("id"), "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sleepService.DeleteSleep(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Sleep log not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sleep log deleted"})
}
