package handlers

import (
	"context"
	"net/http"
	"time"

	ws "nutrition-coach/internal/websocket"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	db       Pinger
	cache    Pinger
	registry *ws.Registry
}

func NewHealthHandlers(db Pinger, registry *ws.Registry) *HealthHandlers {
	return &HealthHandlers{db: db, registry: registry}
}

// WithCache adds the analytics cache to the report. A failing cache marks the
// status degraded without changing the 200.
func (h *HealthHandlers) WithCache(cache Pinger) *HealthHandlers {
	h.cache = cache
	return h
}

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}

func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	resp.Connections, resp.Rooms = h.registry.Stats()

	status := http.StatusOK
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = err.Error()
		}
	}
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
