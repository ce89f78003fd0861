package tasks

import (
	"errors"
	"net/http"
	"strings"

	categoriesdomain "family-chores-go/internal/domain/categories"
	tasksdomain "family-chores-go/internal/domain/tasks"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CategoryID  *string `json:"categoryId"`
	AssignedTo  *string `json:"assignedTo"`
	Deadline    *string `json:"deadline"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description nullableString `json:"description"`
	Status      *string        `json:"status"`
	CategoryID  nullableString `json:"categoryId"`
	AssignedTo  nullableString `json:"assignedTo"`
	Deadline    nullableString `json:"deadline"`
}

type taskListResponse struct {
	Items []tasksdomain.Task `json:"items"`
	Total int                `json:"total"`
}

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	items, err := h.Tasks.GetTasks(r.Context(), uid)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "tasks.list: list tasks failed", err, "user_id", uid)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse{Items: nonNil(items), Total: len(items)})
}

// SearchTasks loads tasks and categories concurrently and filters them by
// q, category_id and status.
func (h *Handlers) SearchTasks(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	query := r.URL.Query()

	criteria := tasksdomain.Criteria{
		Query:          query.Get("q"),
		CategoryID:     commonhandler.QueryParam(query.Get("category_id")),
		DeadlineLayout: h.deadlineLayout,
	}
	if value := commonhandler.QueryParam(query.Get("status")); value != nil {
		status := tasksdomain.Status(*value)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		criteria.Status = &status
	}

	var (
		items []tasksdomain.Task
		cats  []categoriesdomain.Category
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		items, err = h.Tasks.GetTasks(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = h.Categories.GetCategories(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		commonhandler.WriteFailure(w, h.log, "tasks.search: load failed", err, "user_id", uid)
		return
	}

	names := make(map[string]string, len(cats))
	for _, category := range cats {
		names[category.ID] = category.Name
	}

	result := tasksdomain.Collect(tasksdomain.Filter(items, criteria, names))
	writeJSON(w, http.StatusOK, taskListResponse{Items: result, Total: len(result)})
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	task, ok, err := h.Tasks.GetTaskByID(r.Context(), uid, id)
	if err != nil {
		commonhandler.WriteFailure(w, h.log, "tasks.get: get task failed", err, "task_id", id)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "task_not_found", "task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := tasksdomain.CreateTaskInput{
		Title:       commonhandler.CleanText(req.Title),
		Description: commonhandler.CleanOptional(req.Description),
		Status:      tasksdomain.Status(strings.TrimSpace(req.Status)),
		CategoryID:  commonhandler.QueryParam(deref(req.CategoryID)),
		AssignedTo:  commonhandler.QueryParam(deref(req.AssignedTo)),
	}
	if req.Deadline != nil && strings.TrimSpace(*req.Deadline) != "" {
		deadline, err := commonhandler.ParseDeadline(*req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid deadline")
			return
		}
		input.Deadline = &deadline
	}

	uid := userID(r)
	task, err := h.Tasks.CreateTask(r.Context(), uid, input)
	if err != nil {
		h.writeTaskError(w, "tasks.create", err, "user_id", uid)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := tasksdomain.UpdateTaskInput{
		Title: commonhandler.CleanOptional(req.Title),
	}
	if req.Description.Cleared() {
		input.ClearDescription = true
	} else if req.Description.Set {
		input.Description = commonhandler.CleanOptional(req.Description.Value)
	}
	if req.Status != nil {
		status := tasksdomain.Status(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	if req.CategoryID.Cleared() {
		input.ClearCategory = true
	} else if req.CategoryID.Set {
		input.CategoryID = req.CategoryID.Value
	}
	if req.AssignedTo.Cleared() {
		input.ClearAssignee = true
	} else if req.AssignedTo.Set {
		input.AssignedTo = req.AssignedTo.Value
	}
	if req.Deadline.Cleared() {
		input.ClearDeadline = true
	} else if req.Deadline.Set {
		deadline, err := commonhandler.ParseDeadline(*req.Deadline.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid deadline")
			return
		}
		input.Deadline = &deadline
	}

	uid := userID(r)
	id := chi.URLParam(r, "id")
	task, err := h.Tasks.UpdateTask(r.Context(), uid, id, input)
	if err != nil {
		h.writeTaskError(w, "tasks.update", err, "task_id", id)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handlers) AdvanceTask(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	task, err := h.Tasks.AdvanceStatus(r.Context(), uid, id)
	if err != nil {
		h.writeTaskError(w, "tasks.advance", err, "task_id", id)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	if err := h.Tasks.DeleteTask(r.Context(), uid, id); err != nil {
		commonhandler.WriteFailure(w, h.log, "tasks.delete: delete task failed", err, "task_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeTaskError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, tasksdomain.ErrTaskNotFound):
		h.log.BusinessError(op+": task not found", err, args...)
		writeError(w, http.StatusNotFound, "task_not_found", "task not found")
	case errors.Is(err, tasksdomain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
	case errors.Is(err, tasksdomain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
	case errors.Is(err, tasksdomain.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
	case errors.Is(err, tasksdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err, args...)
		writeError(w, http.StatusBadRequest, "category_not_found", "category not found")
	case errors.Is(err, tasksdomain.ErrAssigneeNotFound):
		h.log.BusinessError(op+": assignee not found", err, args...)
		writeError(w, http.StatusBadRequest, "assignee_not_found", "assignee not found")
	default:
		commonhandler.WriteFailure(w, h.log, op+": failed", err, args...)
	}
}

func nonNil(items []tasksdomain.Task) []tasksdomain.Task {
	if items == nil {
		return []tasksdomain.Task{}
	}
	return items
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
