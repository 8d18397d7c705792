package handlers

import (
	"net/http"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/auth"
)

type AnalyticsHandlers struct {
	analytics   *analytics.Service
	authService *auth.Service
}

func NewAnalyticsHandlers(analyticsService *analytics.Service, authService *auth.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analytics:   analyticsService,
		authService: authService,
	}
}

func (h *AnalyticsHandlers) ClientsLastLogin(w http.ResponseWriter, r *http.Request) {
	nutritionistID, err := h.authService.NutritionistIDFromRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.analytics.ClientsLastLogin(r.Context(), nutritionistID)
	if err != nil {
		writeServiceError(w, r, err, "Nutritionist not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalyticsHandlers) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	nutritionistID, err := h.authService.NutritionistIDFromRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.analytics.UpcomingBirthdays(r.Context(), nutritionistID)
	if err != nil {
		writeServiceError(w, r, err, "Nutritionist not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
