package httpserver_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"family-chores-go/internal/config"
	categoriesdomain "family-chores-go/internal/domain/categories"
	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/identity"
	tasksdomain "family-chores-go/internal/domain/tasks"
	userdomain "family-chores-go/internal/domain/user"
	localcategories "family-chores-go/internal/repository/local/categories"
	localfamily "family-chores-go/internal/repository/local/family"
	localtasks "family-chores-go/internal/repository/local/tasks"
	localuser "family-chores-go/internal/repository/local/user"
	"family-chores-go/internal/store/memory"
	"family-chores-go/internal/transport/httpserver"
	"family-chores-go/internal/transport/httpserver/handler"
	categorieshandler "family-chores-go/internal/transport/httpserver/handler/categories"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	familieshandler "family-chores-go/internal/transport/httpserver/handler/families"
	taskshandler "family-chores-go/internal/transport/httpserver/handler/tasks"
	"family-chores-go/pkg/logger"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	users   *userdomain.Service
}

func newTestServer(t *testing.T, scope identity.Scope) *testServer {
	t.Helper()

	s := memory.New()
	log := logger.Nop()

	categoriesService := categoriesdomain.NewService(localcategories.NewLocal(s), scope, log)
	familyService := familydomain.NewService(localfamily.NewLocal(s), familydomain.Options{}, log)
	tasksService := tasksdomain.NewService(localtasks.NewLocal(s), tasksdomain.Options{
		Scope:      scope,
		Categories: categoriesService,
		Members:    familyService,
	}, log)
	usersService := userdomain.NewService(localuser.NewLocal(s))

	handlers := handler.New(
		commonhandler.New(usersService, log),
		taskshandler.New(tasksService, categoriesService, "", log),
		categorieshandler.New(categoriesService, log),
		familieshandler.New(familyService, log),
	)

	cfg := config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		Auth: config.AuthConfig{
			SkipAuth:      true,
			MockUserID:    "u1",
			MockUserEmail: "ana@example.com",
			MockUserName:  "Ana",
		},
	}

	return &testServer{
		handler: httpserver.NewRouter(cfg, handlers, usersService, log),
		store:   s,
		users:   usersService,
	}
}

func (s *testServer) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type taskList struct {
	Items []tasksdomain.Task `json:"items"`
	Total int                `json:"total"`
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMeUpsertsProfile(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodGet, "/api/auth/me", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, rec, &me)
	if me.ID != "u1" || me.Name != "Ana" {
		t.Fatalf("unexpected identity %+v", me)
	}

	profile, ok, err := srv.users.GetProfile(t.Context(), "u1")
	if err != nil || !ok {
		t.Fatalf("expected stored profile, ok=%v err=%v", ok, err)
	}
	if profile.Email == nil || *profile.Email != "ana@example.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestCategoriesServeDefaults(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodGet, "/api/categories", nil)
	var list struct {
		Items []categoriesdomain.Category `json:"items"`
		Total int                         `json:"total"`
	}
	decodeBody(t, rec, &list)
	if rec.Code != http.StatusOK || list.Total != 5 {
		t.Fatalf("expected 5 default categories, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":       "  Buy <script>x</script>milk ",
		"description": "2 liters & bread",
		"categoryId":  "2",
		"deadline":    "2025-03-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task tasksdomain.Task
	decodeBody(t, rec, &task)
	if task.Title != "Buy milk" {
		t.Fatalf("expected sanitized title, got %q", task.Title)
	}
	if task.Description == nil || *task.Description != "2 liters & bread" {
		t.Fatalf("expected description kept, got %v", task.Description)
	}
	if task.Status != tasksdomain.StatusPending {
		t.Fatalf("expected pending, got %q", task.Status)
	}

	rec = srv.do(t, http.MethodGet, "/api/tasks/search?q=SHOPPING", nil)
	var found taskList
	decodeBody(t, rec, &found)
	if found.Total != 1 {
		t.Fatalf("expected category name match, got %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/api/tasks/search?q=05/03/2025&status=pending", nil)
	decodeBody(t, rec, &found)
	if found.Total != 1 {
		t.Fatalf("expected deadline match, got %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/advance", nil)
	decodeBody(t, rec, &task)
	if task.Status != tasksdomain.StatusInProgress {
		t.Fatalf("expected in_progress after advance, got %q", task.Status)
	}

	rec = srv.do(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]interface{}{
		"description": nil,
		"categoryId":  nil,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &task)
	if task.Description != nil || task.CategoryID != nil {
		t.Fatalf("expected cleared fields, got %+v", task)
	}
	if task.Deadline == nil {
		t.Fatalf("expected deadline untouched")
	}

	rec = srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("repeat delete: expected 204, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	tests := []struct {
		name    string
		payload map[string]interface{}
		code    string
	}{
		{name: "empty title", payload: map[string]interface{}{"title": "<b></b>"}, code: "invalid_request"},
		{name: "bad status", payload: map[string]interface{}{"title": "x", "status": "done"}, code: "invalid_request"},
		{name: "unknown category", payload: map[string]interface{}{"title": "x", "categoryId": "nope"}, code: "category_not_found"},
		{name: "unknown assignee", payload: map[string]interface{}{"title": "x", "assignedTo": "nope"}, code: "assignee_not_found"},
		{name: "bad deadline", payload: map[string]interface{}{"title": "x", "deadline": "tomorrow"}, code: "invalid_request"},
		{name: "unknown field", payload: map[string]interface{}{"title": "x", "priority": 1}, code: "invalid_json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/tasks", tt.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var envelope errorEnvelope
			decodeBody(t, rec, &envelope)
			if envelope.Error.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, envelope.Error.Code)
			}
		})
	}
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)
	srv.store.SetFailure(errors.New("disk full"))

	rec := srv.do(t, http.MethodGet, "/api/tasks", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var envelope errorEnvelope
	decodeBody(t, rec, &envelope)
	if envelope.Error.Code != "store_unavailable" || envelope.Error.Message != commonhandler.StoreUnavailableMessage {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestOwnerScopeHidesOtherUsersTasks(t *testing.T) {
	srv := newTestServer(t, identity.ScopeOwner)

	rec := srv.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{"title": "Mine"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var task tasksdomain.Task
	decodeBody(t, rec, &task)
	if task.UserID == nil || *task.UserID != "u1" {
		t.Fatalf("expected owner stamped, got %v", task.UserID)
	}
}

func TestFamilyRoutes(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodPost, "/api/families", map[string]string{"name": "Silva"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var family familydomain.Family
	decodeBody(t, rec, &family)

	rec = srv.do(t, http.MethodGet, "/api/families/code/"+family.InviteCode, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("by code: expected 200, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/families/join", map[string]string{"code": family.InviteCode})
	if rec.Code != http.StatusConflict {
		t.Fatalf("creator join: expected 409, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/families/"+family.ID+"/admin", nil)
	var admin struct {
		IsAdmin bool `json:"isAdmin"`
	}
	decodeBody(t, rec, &admin)
	if !admin.IsAdmin {
		t.Fatalf("expected creator to be admin: %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/api/families/"+family.ID+"/invites", map[string]string{"email": "bia@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d", rec.Code)
	}
	var invite familydomain.FamilyInvite
	decodeBody(t, rec, &invite)

	rec = srv.do(t, http.MethodPatch, "/api/invites/"+invite.ID, map[string]string{"status": "maybe"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPatch, "/api/invites/"+invite.ID, map[string]string{"status": "accepted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/invites?email=bia@example.com", nil)
	var invites struct {
		Total int `json:"total"`
	}
	decodeBody(t, rec, &invites)
	if invites.Total != 1 {
		t.Fatalf("expected one invite for email, got %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/api/families/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing family: expected 404, got %d", rec.Code)
	}
}

func TestMemberRoutes(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	rec := srv.do(t, http.MethodPost, "/api/members", map[string]string{"name": "João"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create member: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var member familydomain.FamilyMember
	decodeBody(t, rec, &member)
	if member.Role != familydomain.RoleMember {
		t.Fatalf("expected default role, got %q", member.Role)
	}

	rec = srv.do(t, http.MethodPatch, "/api/members/"+member.ID, map[string]string{"role": "owner"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: expected 400, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{"title": "Dishes", "assignedTo": member.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("assign: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodDelete, "/api/members/"+member.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete member: expected 204, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/api/members/"+member.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, identity.ScopeGlobal)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
