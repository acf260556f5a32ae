package handlers

import (
	"net/http"

	"github.com/agentstation/reclass/internal/server/response"
)

// HierarchyEntryRequest is the body of an add-entry call.
type HierarchyEntryRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// HandleListHierarchy handles GET /api/v1/hierarchy.
// @Summary List hierarchy options
// @Tags hierarchy
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/hierarchy [get].
func (h *Handlers) HandleListHierarchy(w http.ResponseWriter, _ *http.Request) {
	opts := h.client.HierarchyOptions()
	response.OK(w, map[string]any{
		"options": opts,
		"count":   len(opts),
	})
}

// HandleCascadeOptions handles GET /api/v1/hierarchy/options.
// @Summary Cascading choices
// @Description Names, and for a chosen name its types and categories.
// @Tags hierarchy
// @Produce json
// @Param name query string false "Chosen name"
// @Param type query string false "Chosen type (does not narrow categories)"
// @Success 200 {object} response.Response{data=reconcile.Cascade}
// @Security ApiKeyAuth
// @Router /api/v1/hierarchy/options [get].
func (h *Handlers) HandleCascadeOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response.OK(w, h.client.CascadeOptions(q.Get("name"), q.Get("type")))
}

// HandleAddHierarchyEntry handles POST /api/v1/hierarchy.
// @Summary Add a hierarchy option
// @Tags hierarchy
// @Accept json
// @Produce json
// @Param body body HierarchyEntryRequest true "New option"
// @Success 201 {object} response.Response{data=hierarchy.Option}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 500 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/hierarchy [post].
func (h *Handlers) HandleAddHierarchyEntry(w http.ResponseWriter, r *http.Request) {
	var req HierarchyEntryRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.client.AddHierarchyEntry(req.Name, req.Type, req.Category)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, o)
}
