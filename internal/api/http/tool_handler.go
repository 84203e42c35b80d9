package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"toolcrib-backend/internal/service"
)

type ToolHandler struct {
	toolService service.ToolService
}

func NewToolHandler(toolService service.ToolService) *ToolHandler {
	return &ToolHandler{toolService: toolService}
}

type createToolRequest struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	LifeLimit      float64 `json:"life_limit" validate:"required,gt=0"`
	ThresholdLimit float64 `json:"threshold_limit" validate:"required,gt=0"`
	Stock          int32   `json:"stock" validate:"omitempty,gte=0"`
}

func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req createToolRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	tool, err := h.toolService.CreateTool(r.Context(), actor, service.CreateToolInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		LifeLimit:      req.LifeLimit,
		ThresholdLimit: req.ThresholdLimit,
		Stock:          req.Stock,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	tools, err := h.toolService.ListTools(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	tool, err := h.toolService.GetTool(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tool)
}

type updateToolRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	ThresholdLimit *float64 `json:"threshold_limit" validate:"omitempty,gt=0"`
	Stock          *int32   `json:"stock" validate:"omitempty,gte=0"`
}

func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	var req updateToolRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	tool, err := h.toolService.UpdateTool(r.Context(), actor, id, service.UpdateToolInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		ThresholdLimit: req.ThresholdLimit,
		Stock:          req.Stock,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	if err := h.toolService.DeleteTool(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "tool deleted"})
}

func (h *ToolHandler) StartUsage(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	tool, err := h.toolService.StartUsage(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) StopUsage(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	tool, hours, err := h.toolService.StopUsage(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"tool":        tool,
		"usage_hours": hours,
	})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
