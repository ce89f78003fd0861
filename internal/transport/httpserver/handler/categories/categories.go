package categories

import (
	"errors"
	"net/http"

	categoriesdomain "family-chores-go/internal/domain/categories"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"family-chores-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Categories *categoriesdomain.Service
	log        logger.Logger
}

func New(categories *categoriesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Categories: categories,
		log:        logger.OrNop(log),
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type updateCategoryRequest struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

type categoryListResponse struct {
	Items []categoriesdomain.Category `json:"items"`
	Total int                         `json:"total"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	items, err := h.Categories.GetCategories(r.Context(), uid)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "categories.list: list categories failed", err, "user_id", uid)
		return
	}
	if items == nil {
		items = []categoriesdomain.Category{}
	}

	commonhandler.WriteJSON(w, http.StatusOK, categoryListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	category, ok, err := h.Categories.GetCategoryByID(r.Context(), uid, id)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "categories.get: get category failed", err, "category_id", id)
		return
	}
	if !ok {
		commonhandler.WriteError(w, http.StatusNotFound, "category_not_found", "category not found")
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, category)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	uid := userID(r)
	category, err := h.Categories.CreateCategory(r.Context(), uid, categoriesdomain.CreateCategoryInput{
		Name: commonhandler.CleanText(req.Name),
		Icon: req.Icon,
	})
	if err != nil {
		h.writeCategoryError(w, "categories.create", err, "user_id", uid)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	uid := userID(r)
	id := chi.URLParam(r, "id")
	category, err := h.Categories.UpdateCategory(r.Context(), uid, id, categoriesdomain.UpdateCategoryInput{
		Name: commonhandler.CleanOptional(req.Name),
		Icon: req.Icon,
	})
	if err != nil {
		h.writeCategoryError(w, "categories.update", err, "category_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	if err := h.Categories.DeleteCategory(r.Context(), uid, id); err != nil {
		h.writeCategoryError(w, "categories.delete", err, "category_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeCategoryError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, categoriesdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "category_not_found", "category not found")
	case errors.Is(err, categoriesdomain.ErrCategoryNameRequired):
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
	case errors.Is(err, categoriesdomain.ErrNoFieldsToUpdate):
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
	case errors.Is(err, categoriesdomain.ErrCategoryReadOnly):
		h.log.BusinessError(op+": shared category is read-only", err, args...)
		commonhandler.WriteError(w, http.StatusForbidden, "category_read_only", "shared category cannot be modified")
	default:
		commonhandler.WriteFailure(w, h.log, op+": failed", err, args...)
	}
}

func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}
