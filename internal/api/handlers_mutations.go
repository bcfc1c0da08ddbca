// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/mutation"
	"github.com/tomtom215/quarry/internal/validation"
)

// MutationRequest is the body of a mutation submission. Action is an edit
// action code such as "CHANGE_STATUS".
type MutationRequest struct {
	ID      string                 `json:"id,omitempty"`
	Action  string                 `json:"action"`
	Actor   string                 `json:"actor,omitempty"`
	Changes map[string]interface{} `json:"changes,omitempty"`
}

// SubmitMutation applies one edit to an entity.
//
// A committed mutation answers 202: the row is written, its event is on its
// way. NONE answers 200 with applied=false.
//
//	POST /api/v1/entities/order/mutations
//	{"id": "o-003", "action": "CHANGE_STATUS", "actor": "ada", "changes": {"status": "shipped"}}
func (h *Handler) SubmitMutation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.mutations == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavail, "Mutations are not available", nil)
		return
	}

	var body MutationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondFailure(w, r, validation.WrapFailure("Request body is not a valid mutation", err).
			WithDetails(map[string]interface{}{"reason": validation.ReasonInvalidRequest}))
		return
	}

	action, err := models.ParseEditAction(body.Action)
	if err != nil {
		respondFailure(w, r, validation.WrapFailure("Unknown edit action", err).
			WithDetails(map[string]interface{}{
				"reason":  validation.ReasonInvalidRequest,
				"field":   "action",
				"allowed": actionCodes(),
			}))
		return
	}

	res, err := h.mutations.Apply(r.Context(), mutation.Mutation{
		Entity:  chi.URLParam(r, "entity"),
		ID:      body.ID,
		Action:  action,
		Actor:   body.Actor,
		Changes: body.Changes,
	})
	if err != nil {
		respondMutationError(w, r, err)
		return
	}

	status := http.StatusAccepted
	if res.Applied {
		h.InvalidateSearchCache()
	} else {
		status = http.StatusOK
	}
	respondSuccess(w, r, status, res, start)
}

// EditActions returns the edit action table.
//
//	GET /api/v1/edit-actions
func (h *Handler) EditActions(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.EditActionCatalog(), time.Now())
}

func actionCodes() []string {
	actions := models.EditActions()
	codes := make([]string, 0, len(actions))
	for _, a := range actions {
		codes = append(codes, a.Code())
	}
	return codes
}
