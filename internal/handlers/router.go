package handlers

import (
	"net/http"
)

type Router struct {
	Analytics *AnalyticsHandlers
	Weight    *WeightHandlers
	Sleep     *SleepHandlers
	Health    *HealthHandlers
	WebSocket http.Handler
}

// Endpoints lists every route in registration order; printAPIEndpoints
// reads it at startup.
var Endpoints = []string{
	"GET    /ws",
	"GET    /socket",
	"GET    /api/health",
	"GET    /nutritionist/clients/last-login",
	"GET    /nutritionist/clients/upcoming-birthdays",
	"GET    /weight-log/logs",
	"POST   /weight-log/",
	"PUT    /weight-log/user/{userid}/weight-target",
	"POST   /sleep-log",
	"GET    /sleep-log/latest",
	"GET    /sleep-log/summary",
	"DELETE /sleep-log/{id}",
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// The gateway answers non-GET requests itself with a 405.
	mux.Handle("/ws", rt.WebSocket)
	mux.Handle("/socket", rt.WebSocket)

	mux.HandleFunc("GET /api/health", rt.Health.Health)

	mux.HandleFunc("GET /nutritionist/clients/last-login", rt.Analytics.ClientsLastLogin)
	mux.HandleFunc("GET /nutritionist/clients/upcoming-birthdays", rt.Analytics.UpcomingBirthdays)

	mux.HandleFunc("GET /weight-log/logs", rt.Weight.WeightLogs)
	mux.HandleFunc("POST /weight-log/{$}", rt.Weight.LogWeight)
	mux.HandleFunc("PUT /weight-log/user/{userid}/weight-target", rt.Weight.UpdateWeightTarget)

	mux.HandleFunc("POST /sleep-log", rt.Sleep.CreateSleep)
	mux.HandleFunc("GET /sleep-log/latest", rt.Sleep.LatestSleep)
	mux.HandleFunc("GET /sleep-log/summary", rt.Sleep.SleepSummary)
	mux.HandleFunc("DELETE /sleep-log/{id}", rt.Sleep.DeleteSleep)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
