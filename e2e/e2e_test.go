//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/db"
	categoriesdomain "family-chores-go/internal/domain/categories"
	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/identity"
	tasksdomain "family-chores-go/internal/domain/tasks"
	userdomain "family-chores-go/internal/domain/user"
	"family-chores-go/internal/repository/inmemory"
	categoriesrepo "family-chores-go/internal/repository/postgres/categories"
	familyrepo "family-chores-go/internal/repository/postgres/family"
	tasksrepo "family-chores-go/internal/repository/postgres/tasks"
	userrepo "family-chores-go/internal/repository/postgres/user"
	"family-chores-go/internal/transport/httpserver"
	"family-chores-go/internal/transport/httpserver/handler"
	categorieshandler "family-chores-go/internal/transport/httpserver/handler/categories"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	familieshandler "family-chores-go/internal/transport/httpserver/handler/families"
	taskshandler "family-chores-go/internal/transport/httpserver/handler/tasks"
	"family-chores-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)

	cfg := config.Config{
		DB:          config.DBConfig{DSN: dsn},
		CORSOrigins: []string{"*"},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
	}

	log := logger.Nop()
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	categoriesService := categoriesdomain.NewService(categoriesrepo.NewPostgres(dbConn), identity.ScopeGlobal, log)
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn), familydomain.Options{
		Cache: inmemory.NewFamilyCodeCache(),
	}, log)
	tasksService := tasksdomain.NewService(tasksrepo.NewPostgres(dbConn), tasksdomain.Options{
		Categories: categoriesService,
		Members:    familyService,
	}, log)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))

	handlers := handler.New(
		commonhandler.New(userService, log),
		taskshandler.New(tasksService, categoriesService, "", log),
		categorieshandler.New(categoriesService, log),
		familieshandler.New(familyService, log),
	)

	router := httpserver.NewRouter(cfg, handlers, userService, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name":       "User " + token,
				"avatar_url": "https://example.com/avatar.png",
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

// cleanDB keeps the seeded categories so the defaults stay visible.
func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE tasks, family_invites, family_members, families, user_profiles",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	var envelope errorEnvelope
	decode(t, body, &envelope)
	if envelope.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", envelope.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "ana", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth me status %d: %s", resp.StatusCode, body)
	}
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, body, &me)
	if me.ID != "ana" || me.Email != "ana@example.com" || me.Name != "User ana" {
		t.Fatalf("unexpected identity %+v", me)
	}
}

func TestE2EFamilyFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/families", "ana", map[string]string{"name": "Silva"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family status %d: %s", resp.StatusCode, body)
	}
	var family familydomain.Family
	decode(t, body, &family)
	if len(family.InviteCode) != 6 {
		t.Fatalf("expected 6 character code, got %q", family.InviteCode)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/families/join", "bia", map[string]string{
		"code": strings.ToLower(family.InviteCode),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status %d: %s", resp.StatusCode, body)
	}

	resp, _ = requestJSON(t, client, http.MethodPost, base+"/families/join", "bia", map[string]string{"code": family.InviteCode})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second join, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/families/"+family.ID+"/members", "ana", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("members status %d: %s", resp.StatusCode, body)
	}
	var members struct {
		Items []familydomain.FamilyMember `json:"items"`
	}
	decode(t, body, &members)
	if len(members.Items) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members.Items))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/families/"+family.ID+"/admin", "ana", nil)
	var admin struct {
		IsAdmin bool `json:"isAdmin"`
	}
	decode(t, body, &admin)
	if resp.StatusCode != http.StatusOK || !admin.IsAdmin {
		t.Fatalf("expected creator to be admin, status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/families/"+family.ID+"/invites", "ana", map[string]string{"email": "caio@example.com"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("invite status %d: %s", resp.StatusCode, body)
	}
	var invite familydomain.FamilyInvite
	decode(t, body, &invite)

	resp, body = requestJSON(t, client, http.MethodPatch, base+"/invites/"+invite.ID, "caio", map[string]string{"status": "accepted"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept invite status %d: %s", resp.StatusCode, body)
	}
}

func TestE2ETaskFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodGet, base+"/categories", "ana", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories status %d: %s", resp.StatusCode, body)
	}
	var cats struct {
		Items []categoriesdomain.Category `json:"items"`
	}
	decode(t, body, &cats)
	if len(cats.Items) < 5 {
		t.Fatalf("expected seeded categories, got %d", len(cats.Items))
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/members", "ana", map[string]string{"name": "João"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create member status %d: %s", resp.StatusCode, body)
	}
	var member familydomain.FamilyMember
	decode(t, body, &member)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/tasks", "ana", map[string]interface{}{
		"title":      "Buy <b>milk</b>",
		"categoryId": "2",
		"assignedTo": member.ID,
		"deadline":   "2025-03-05T12:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task status %d: %s", resp.StatusCode, body)
	}
	var task tasksdomain.Task
	decode(t, body, &task)
	if task.Title != "Buy milk" || task.Status != tasksdomain.StatusPending {
		t.Fatalf("unexpected task %+v", task)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/tasks/search?q=05/03", "ana", nil)
	var found struct {
		Total int `json:"total"`
	}
	decode(t, body, &found)
	if resp.StatusCode != http.StatusOK || found.Total != 1 {
		t.Fatalf("expected deadline match, status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/tasks/"+task.ID+"/advance", "ana", nil)
	decode(t, body, &task)
	if resp.StatusCode != http.StatusOK || task.Status != tasksdomain.StatusInProgress {
		t.Fatalf("expected in_progress, status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPatch, base+"/tasks/"+task.ID, "ana", map[string]interface{}{"assignedTo": nil})
	decode(t, body, &task)
	if resp.StatusCode != http.StatusOK || task.AssignedTo != nil {
		t.Fatalf("expected assignee cleared, status %d body %s", resp.StatusCode, body)
	}

	resp, _ = requestJSON(t, client, http.MethodDelete, base+"/tasks/"+task.ID, "ana", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp, _ = requestJSON(t, client, http.MethodGet, base+"/tasks/"+task.ID, "ana", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}
