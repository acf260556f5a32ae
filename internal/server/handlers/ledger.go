package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agentstation/reclass/internal/server/response"
	"github.com/agentstation/reclass/pkg/tabular"
)

// HandleLedger handles GET /api/v1/ledger.
// @Summary Ledger rows
// @Tags ledger
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/ledger [get].
func (h *Handlers) HandleLedger(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.client.LedgerRows()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"rows":  rows,
		"count": len(rows),
	})
}

// HandleExportLedger handles GET /api/v1/ledger/export.
// @Summary Download the ledger
// @Description File ledgers are sent byte for byte; other backends as CSV.
// @Tags ledger
// @Produce octet-stream
// @Success 200 {file} file
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/ledger/export [get].
func (h *Handlers) HandleExportLedger(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.client.ExportLedger(&buf); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	name := h.client.ExportName()
	w.Header().Set("Content-Type", tabular.FormatOf(name).ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
