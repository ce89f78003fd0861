package families

import (
	"errors"
	"net/http"
	"strings"

	familydomain "family-chores-go/internal/domain/family"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type createInviteRequest struct {
	Email string `json:"email"`
}

type updateInviteRequest struct {
	Status string `json:"status"`
}

type inviteListResponse struct {
	Items []familydomain.FamilyInvite `json:"items"`
	Total int                         `json:"total"`
}

func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	familyID := chi.URLParam(r, "id")
	invite, err := h.Families.CreateInvite(r.Context(), familyID, strings.TrimSpace(req.Email))
	if err != nil {
		h.writeInviteError(w, "invites.create", err, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

func (h *Handlers) ListInvites(w http.ResponseWriter, r *http.Request) {
	items, err := h.Families.GetInvites(r.Context(), commonhandler.QueryParam(r.URL.Query().Get("email")))
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "invites.list: list invites failed", err)
		return
	}
	if items == nil {
		items = []familydomain.FamilyInvite{}
	}

	writeJSON(w, http.StatusOK, inviteListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) UpdateInvite(w http.ResponseWriter, r *http.Request) {
	var req updateInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	id := chi.URLParam(r, "id")
	invite, err := h.Families.UpdateInviteStatus(r.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		h.writeInviteError(w, "invites.update", err, "invite_id", id)
		return
	}

	writeJSON(w, http.StatusOK, invite)
}

func (h *Handlers) writeInviteError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, familydomain.ErrFamilyNotFound):
		h.log.BusinessError(op+": family not found", err, args...)
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
	case errors.Is(err, familydomain.ErrInviteNotFound):
		h.log.BusinessError(op+": invite not found", err, args...)
		writeError(w, http.StatusNotFound, "invite_not_found", "invite not found")
	case errors.Is(err, familydomain.ErrInviteEmailRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
	case errors.Is(err, familydomain.ErrInvalidInviteStatus):
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be accepted or rejected")
	case errors.Is(err, familydomain.ErrInviteAlreadyResolved):
		h.log.BusinessError(op+": invite already resolved", err, args...)
		writeError(w, http.StatusConflict, "invite_already_resolved", "invite already resolved")
	default:
		commonhandler.WriteFailure(w, h.log, op+": failed", err, args...)
	}
}
