package handlers

import (
	"net/http"

	"github.com/agentstation/reclass/internal/server/response"
)

// HandleGetRecord handles GET /api/v1/records/{id}.
// @Summary Master record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response{data=records.Record}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/records/{id} [get].
func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.client.Record(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, rec)
}
