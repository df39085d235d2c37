package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the full API surface. Everything under /api except
// register and login goes through the auth middleware.
func NewRouter(h *Handler, stream *StreamHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.Register)
		api.Post("/auth/login", h.Login)

		api.Group(func(authed chi.Router) {
			authed.Use(AuthMiddleware(h.Auth))

			authed.Post("/auth/logout", h.Logout)
			authed.Post("/auth/logout-all", h.LogoutAll)

			authed.Get("/events", stream.ServeHTTP)
			authed.Get("/sessions", h.ListSessions)
			authed.Get("/ai/status", h.AIStatus)

			authed.Get("/notifications", h.ListNotifications)
			authed.Post("/notifications/check-due-dates", h.CheckDueDates)
			authed.Post("/notifications/{id}/read", h.MarkNotificationRead)
			authed.Post("/notifications/read-all", h.MarkAllNotificationsRead)

			authed.Get("/settings", h.GetSettings)
			authed.Put("/settings", h.UpdateSettings)
			authed.Get("/settings/calendar-sync", h.GetCalendarSync)
			authed.Put("/settings/calendar-sync", h.UpdateCalendarSync)
			authed.Post("/settings/calendar-sync/regenerate-token", h.RegenerateFeedToken)

			authed.Get("/categories", h.ListCategories)
			authed.Post("/categories", h.CreateCategory)
			authed.Get("/categories/{id}", h.GetCategory)
			authed.Put("/categories/{id}", h.UpdateCategory)
			authed.Delete("/categories/{id}", h.DeleteCategory)

			authed.Get("/labels", h.ListLabels)
			authed.Post("/labels", h.CreateLabel)
			authed.Put("/labels/{id}", h.UpdateLabel)
			authed.Delete("/labels/{id}", h.DeleteLabel)

			authed.Get("/filter-presets", h.ListFilterPresets)
			authed.Post("/filter-presets", h.CreateFilterPreset)
			authed.Put("/filter-presets/{id}", h.UpdateFilterPreset)
			authed.Delete("/filter-presets/{id}", h.DeleteFilterPreset)

			authed.Get("/tasks", h.ListTasks)
			authed.Post("/tasks", h.CreateTask)
			authed.Get("/tasks/{id}", h.GetTask)
			authed.Put("/tasks/{id}", h.UpdateTask)
			authed.Delete("/tasks/{id}", h.DeleteTask)
		})
	})

	return router
}
