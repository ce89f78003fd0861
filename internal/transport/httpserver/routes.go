package httpserver

import (
	"net/http"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/transport/httpserver/handler"
	authmw "family-chores-go/internal/transport/httpserver/middleware"
	"family-chores-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewAuth(cfg.Auth, cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/tasks", handlers.Tasks.ListTasks)
			r.Post("/tasks", handlers.Tasks.CreateTask)
			r.Get("/tasks/search", handlers.Tasks.SearchTasks)
			r.Get("/tasks/{id}", handlers.Tasks.GetTask)
			r.Patch("/tasks/{id}", handlers.Tasks.UpdateTask)
			r.Delete("/tasks/{id}", handlers.Tasks.DeleteTask)
			r.Post("/tasks/{id}/advance", handlers.Tasks.AdvanceTask)

			r.Get("/categories", handlers.Categories.ListCategories)
			r.Post("/categories", handlers.Categories.CreateCategory)
			r.Get("/categories/{id}", handlers.Categories.GetCategory)
			r.Patch("/categories/{id}", handlers.Categories.UpdateCategory)
			r.Delete("/categories/{id}", handlers.Categories.DeleteCategory)

			r.Get("/families", handlers.Families.ListFamilies)
			r.Post("/families", handlers.Families.CreateFamily)
			r.Post("/families/join", handlers.Families.JoinFamily)
			r.Get("/families/code/{code}", handlers.Families.GetFamilyByCode)
			r.Get("/families/{id}", handlers.Families.GetFamily)
			r.Get("/families/{id}/members", handlers.Families.ListFamilyMembers)
			r.Get("/families/{id}/admin", handlers.Families.IsFamilyAdmin)
			r.Post("/families/{id}/invites", handlers.Families.CreateInvite)

			r.Get("/members", handlers.Families.ListMembers)
			r.Post("/members", handlers.Families.CreateMember)
			r.Get("/members/{id}", handlers.Families.GetMember)
			r.Patch("/members/{id}", handlers.Families.UpdateMember)
			r.Delete("/members/{id}", handlers.Families.DeleteMember)

			r.Get("/invites", handlers.Families.ListInvites)
			r.Patch("/invites/{id}", handlers.Families.UpdateInvite)
		})
	})

	return r
}
