package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/reclass/internal/server/response"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/session"
)

// SubmitRequest is the body of a submit call.
type SubmitRequest struct {
	RecordID string `json:"record_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Alias    string `json:"alias"`
}

// SkipRequest is the body of a skip call.
type SkipRequest struct {
	RecordID string `json:"record_id"`
}

// DraftRequest is the body of a draft update.
type DraftRequest struct {
	Alias string `json:"alias"`
}

// NextResponse is the record under review plus the alias typed so far.
type NextResponse struct {
	reconcile.Result
	AliasDraft string `json:"alias_draft"`
}

// HandleCreateSession handles POST /api/v1/sessions.
// @Summary Start a review session
// @Tags sessions
// @Produce json
// @Success 201 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/sessions [post].
func (h *Handlers) HandleCreateSession(w http.ResponseWriter, _ *http.Request) {
	s := h.client.NewSession()
	h.sessions.Add(s)
	response.Created(w, map[string]any{
		"id":         s.ID(),
		"created_at": s.CreatedAt(),
		"expires_in": h.sessions.TTL().String(),
	})
}

// HandleEndSession handles DELETE /api/v1/sessions/{id}.
// @Summary End a review session
// @Description Discards skipped records and the alias draft. Ledger rows are kept.
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id} [delete].
func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.NoContent(w)
}

// HandleNext handles GET /api/v1/sessions/{id}/next.
// @Summary Next unresolved record
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=NextResponse}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/next [get].
func (h *Handlers) HandleNext(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	res, err := h.client.NextUnresolved(s)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, NextResponse{Result: res, AliasDraft: s.AliasDraft()})
}

// HandleSessionProgress handles GET /api/v1/sessions/{id}/progress.
// @Summary Session progress
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=reconcile.Progress}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/progress [get].
func (h *Handlers) HandleSessionProgress(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	p, err := h.client.Progress(s)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, p)
}

// HandleProgress handles GET /api/v1/progress.
// @Summary Overall progress
// @Description Progress outside any session; skipped is always 0.
// @Tags sessions
// @Produce json
// @Success 200 {object} response.Response{data=reconcile.Progress}
// @Security ApiKeyAuth
// @Router /api/v1/progress [get].
func (h *Handlers) HandleProgress(w http.ResponseWriter, _ *http.Request) {
	p, err := h.client.Progress(nil)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, p)
}

// HandleSetDraft handles PUT /api/v1/sessions/{id}/draft.
// @Summary Save the alias draft
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param body body DraftRequest true "Alias typed so far"
// @Success 204
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/draft [put].
func (h *Handlers) HandleSetDraft(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req DraftRequest
	if !decode(w, r, &req) {
		return
	}
	h.client.SetAliasDraft(s, req.Alias)
	response.NoContent(w)
}

// HandleSubmit handles POST /api/v1/sessions/{id}/submit.
// @Summary Submit a reclassification
// @Description Appends one ledger row and returns the next record.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SubmitRequest true "Selection"
// @Success 201 {object} response.Response{data=reconcile.Submission}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 500 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/submit [post].
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req SubmitRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RecordID) == "" {
		response.ValidationFailed(w, "record_id is required", "record_id")
		return
	}
	if !h.underReview(w, s, req.RecordID) {
		return
	}

	sel := reconcile.Selection{Name: req.Name, Type: req.Type, Category: req.Category}
	if err := h.client.CheckSelection(sel); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	sub, err := h.client.Submit(s, req.RecordID, sel, req.Alias)
	if err != nil {
		h.logger.Error().Err(err).Str("record_id", req.RecordID).Msg("Submit failed")
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, sub)
}

// HandleSkip handles POST /api/v1/sessions/{id}/skip.
// @Summary Skip a record for this session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SkipRequest true "Record to skip"
// @Success 200 {object} response.Response{data=reconcile.Result}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/skip [post].
func (h *Handlers) HandleSkip(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req SkipRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RecordID) == "" {
		response.ValidationFailed(w, "record_id is required", "record_id")
		return
	}
	if !h.underReview(w, s, req.RecordID) {
		return
	}
	res, err := h.client.Skip(s, req.RecordID)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, res)
}

// underReview checks that id is a known record and the one the session is
// currently presenting. On failure it writes a 404 or 409 and returns false.
func (h *Handlers) underReview(w http.ResponseWriter, s *session.State, id string) bool {
	if _, err := h.client.Record(id); err != nil {
		response.ErrorFromType(w, err)
		return false
	}
	if strings.TrimSpace(id) != s.CurrentID() {
		response.Conflict(w, "NOT_UNDER_REVIEW",
			fmt.Sprintf("record %s is not under review in this session", strings.TrimSpace(id)))
		return false
	}
	return true
}
