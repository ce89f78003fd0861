package families

import (
	"errors"
	"net/http"
	"strings"

	familydomain "family-chores-go/internal/domain/family"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createMemberRequest struct {
	Name     string  `json:"name"`
	UserID   string  `json:"userId"`
	FamilyID *string `json:"familyId"`
	Role     string  `json:"role"`
}

type updateMemberRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type memberListResponse struct {
	Items []familydomain.FamilyMember `json:"items"`
	Total int                         `json:"total"`
}

// ListMembers filters by family_id when present.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, commonhandler.QueryParam(r.URL.Query().Get("family_id")))
}

func (h *Handlers) listMembers(w http.ResponseWriter, r *http.Request, familyID *string) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	items, err := h.Families.GetFamilyMembers(r.Context(), userID, familyID)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "members.list: list members failed", err)
		return
	}
	if items == nil {
		items = []familydomain.FamilyMember{}
	}

	writeJSON(w, http.StatusOK, memberListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, ok, err := h.Families.GetFamilyMemberByID(r.Context(), id)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "members.get: get member failed", err, "member_id", id)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Families.AddFamilyMember(r.Context(), familydomain.AddMemberInput{
		Name:     commonhandler.CleanText(req.Name),
		UserID:   strings.TrimSpace(req.UserID),
		FamilyID: commonhandler.QueryParam(derefString(req.FamilyID)),
		Role:     req.Role,
	})
	if err != nil {
		h.writeMemberError(w, "members.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	id := chi.URLParam(r, "id")
	member, err := h.Families.UpdateFamilyMember(r.Context(), id, familydomain.UpdateMemberInput{
		Name: commonhandler.CleanOptional(req.Name),
		Role: req.Role,
	})
	if err != nil {
		h.writeMemberError(w, "members.update", err, "member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Families.RemoveFamilyMember(r.Context(), id); err != nil {
		commonhandler.WriteFailure(w, h.log, "members.delete: delete member failed", err, "member_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, familydomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, args...)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, familydomain.ErrMemberNameRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
	case errors.Is(err, familydomain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
	case errors.Is(err, familydomain.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
	default:
		commonhandler.WriteFailure(w, h.log, op+": failed", err, args...)
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
