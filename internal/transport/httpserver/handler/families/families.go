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

type createFamilyRequest struct {
	Name        string `json:"name"`
	CreatorName string `json:"creatorName"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type familyListResponse struct {
	Items []familydomain.Family `json:"items"`
	Total int                   `json:"total"`
}

type joinFamilyResponse struct {
	Family familydomain.Family       `json:"family"`
	Member familydomain.FamilyMember `json:"member"`
}

type adminResponse struct {
	FamilyID string `json:"familyId"`
	UserID   string `json:"userId"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	items, err := h.Families.GetFamilies(r.Context())
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "families.list: list families failed", err)
		return
	}
	if items == nil {
		items = []familydomain.Family{}
	}

	writeJSON(w, http.StatusOK, familyListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = commonhandler.CleanText(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	creatorName := commonhandler.CleanText(req.CreatorName)
	if creatorName == "" {
		creatorName = displayName(user)
	}

	result, err := h.Families.CreateFamily(r.Context(), req.Name, user.ID, creatorName)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNameRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		case errors.Is(err, familydomain.ErrCodeGenerationFailed):
			h.log.InternalError("families.create: code generation failed", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "code_generation_failed", "could not allocate an invite code, please try again")
		default:
			commonhandler.WriteFailure(w, h.log, "families.create: create family failed", err, "user_id", user.ID)
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, ok, err := h.Families.GetFamilyByID(r.Context(), id)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "families.get: get family failed", err, "family_id", id)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetFamilyByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	result, ok, err := h.Families.GetFamilyByInviteCode(r.Context(), code)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "families.get_by_code: get family failed", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "family_code_not_found", "family code not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	name := commonhandler.CleanText(req.Name)
	if name == "" {
		name = displayName(user)
	}

	family, member, err := h.Families.JoinFamily(r.Context(), user.ID, name, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrCodeRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		case errors.Is(err, familydomain.ErrFamilyCodeNotFound):
			h.log.BusinessError("families.join: family code not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "family_code_not_found", "family code not found")
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("families.join: user already in family", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_in_family", "already in family")
		default:
			commonhandler.WriteFailure(w, h.log, "families.join: join family failed", err, "user_id", user.ID)
		}
		return
	}

	writeJSON(w, http.StatusOK, joinFamilyResponse{Family: *family, Member: *member})
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.listMembers(w, r, &id)
}

// IsFamilyAdmin checks user_id, or the caller when the query omits it.
func (h *Handlers) IsFamilyAdmin(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "id")
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID, _ = middleware.UserIDFromContext(r.Context())
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	isAdmin, err := h.Families.IsUserFamilyAdmin(r.Context(), userID, familyID)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "families.is_admin: check failed", err, "family_id", familyID, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, adminResponse{FamilyID: familyID, UserID: userID, IsAdmin: isAdmin})
}

func displayName(user middleware.User) string {
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		return user.Email
	}
	return user.ID
}
