package http

import (
	"net/http"
	"strconv"

	"toolcrib-backend/internal/service"
)

type UsageHandler struct {
	usageService     service.UsageService
	dashboardService service.DashboardService
}

func NewUsageHandler(usageService service.UsageService, dashboardService service.DashboardService) *UsageHandler {
	return &UsageHandler{usageService: usageService, dashboardService: dashboardService}
}

func (h *UsageHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	limit := int32(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 32); err == nil && parsed > 0 {
			limit = int32(parsed)
		}
	}

	sessions, err := h.usageService.ListSessions(r.Context(), actor, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

func (h *UsageHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	period := r.URL.Query().Get("period")
	var toolID int32
	if raw := r.URL.Query().Get("toolId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			respondValidationError(w, err)
			return
		}
		toolID = int32(parsed)
	}

	buckets, err := h.usageService.Analytics(r.Context(), actor, period, toolID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"buckets": buckets,
	})
}

func (h *UsageHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboardService.GetStats(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
